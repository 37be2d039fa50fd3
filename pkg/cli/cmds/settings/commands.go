package settings

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/vario.go/pkg/cli/sh"
	"github.com/robotalks/vario.go/pkg/lxeos"
)

func parseValue(c *ishell.Context, name string, min, max float64) (float64, bool) {
	if len(c.Args) < 1 {
		c.Err(fmt.Errorf("%s required", name))
		return 0, false
	}
	val, err := strconv.ParseFloat(c.Args[0], 64)
	if err != nil {
		c.Err(fmt.Errorf("Invalid %s: %v", name, err))
		return 0, false
	}
	if val < min || val > max {
		c.Err(fmt.Errorf("%s must be within [%v, %v]", name, min, max))
		return 0, false
	}
	return val, true
}

func printSettings(c *ishell.Context) {
	s := sh.DeviceFrom(c).Settings()
	sh.Print(c, s, fmt.Sprintf("MC %.1f m/s, bugs %.0f%%, ballast %.2f", s.MacCready, s.Bugs, s.Ballast))
}

var (
	// MacCreadyCmd sets MacCready.
	MacCreadyCmd = ishell.Cmd{
		Name: "mc",
		Help: "MC(m/s)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			val, ok := parseValue(c, "MC", 0, 10)
			if !ok {
				return
			}
			env, done := sh.Env(c)
			defer done()
			if err := sh.DeviceFrom(c).PutMacCready(env, val); err != nil {
				c.Err(err)
				return
			}
			printSettings(c)
		}),
	}

	// BugsCmd sets bugs.
	BugsCmd = ishell.Cmd{
		Name: "bugs",
		Help: "BUGS(% lost)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			val, ok := parseValue(c, "BUGS", 0, 50)
			if !ok {
				return
			}
			env, done := sh.Env(c)
			defer done()
			if err := sh.DeviceFrom(c).PutBugs(env, lxeos.BugsFromDevice(val)); err != nil {
				c.Err(err)
				return
			}
			printSettings(c)
		}),
	}
)

func init() {
	sh.AddCmds(
		&MacCreadyCmd,
		&BugsCmd,
	)
}
