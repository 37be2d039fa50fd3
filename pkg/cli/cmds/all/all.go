// Package all registers all shell commands.
package all

import (
	_ "github.com/robotalks/vario.go/pkg/cli/cmds/declare"
	_ "github.com/robotalks/vario.go/pkg/cli/cmds/logger"
	_ "github.com/robotalks/vario.go/pkg/cli/cmds/settings"
)
