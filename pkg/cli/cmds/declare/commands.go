package declare

import (
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/vario.go/pkg/cli/sh"
	"github.com/robotalks/vario.go/pkg/task"
)

// DeclareCmd uploads a task from a YAML file.
var DeclareCmd = ishell.Cmd{
	Name: "declare",
	Help: "TASK-FILE",
	Func: sh.MustBeConnected(func(c *ishell.Context) {
		if len(c.Args) < 1 {
			c.Err(fmt.Errorf("TASK-FILE required"))
			return
		}
		decl, err := task.LoadFile(c.Args[0])
		if err != nil {
			c.Err(err)
			return
		}
		env, done := sh.Env(c)
		err = sh.DeviceFrom(c).Declare(env, decl)
		done()
		if err != nil {
			c.Err(err)
			return
		}
		sh.Print(c, decl, fmt.Sprintf("declared %d turnpoints", decl.Size()))
	}),
}

func init() {
	sh.AddCmds(&DeclareCmd)
}
