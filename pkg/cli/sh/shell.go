// Package sh provides the interactive shell of lxeoscli.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/vario.go/pkg/env"
	"github.com/robotalks/vario.go/pkg/info"
	"github.com/robotalks/vario.go/pkg/lxeos"
	"github.com/robotalks/vario.go/pkg/operation"
	"github.com/robotalks/vario.go/pkg/port"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell   *ishell.Shell
	Config  *env.Config
	Session *Session
}

// Session is an open connection to the instrument.
type Session struct {
	Port   *port.Stream
	Device *lxeos.Device
	Store  info.Store

	cancel func()
	done   chan error
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
		&StatusCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// DeviceFrom gets the connected device from ishell context.
func DeviceFrom(c *ishell.Context) *lxeos.Device {
	return ShellFrom(c).Session.Device
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Session == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// Env creates the operation env for a command, progress is shown with a
// progress bar in interactive mode.
func Env(c *ishell.Context) (operation.Env, func()) {
	ctx := context.Background()
	if !ShellFrom(c).Interactive {
		return operation.Null(ctx), func() {}
	}
	bar := c.ProgressBar()
	bar.Start()
	env := operation.WithProgress(ctx, func(pos, max uint) {
		if max > 0 {
			bar.Progress(int(pos * 100 / max))
		}
	})
	return env, bar.Stop
}

// Print prints v as JSON in JSON mode, otherwise text.
func Print(c *ishell.Context, v interface{}, text string) {
	if ShellFrom(c).OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(text)
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect opens the serial port and enables the sentences.
func (s *Shell) Connect() error {
	stream, err := s.Config.OpenPort()
	if err != nil {
		return err
	}
	sess := &Session{Port: stream, Device: lxeos.New(stream), done: make(chan error, 1)}
	stream.Handler = sess.Device.Receiver(&sess.Store)
	stream.OnIdle = func(context.Context) { sess.Device.LinkTimeout() }
	ctx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel
	go func() {
		sess.done <- stream.Run(ctx)
	}()
	if err := sess.Device.EnableNMEA(operation.Null(ctx)); err != nil {
		sess.close()
		return err
	}
	s.Disconnect()
	s.Session = sess
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", s.Config.Serial.Device))
	return nil
}

// Disconnect closes the current session.
func (s *Shell) Disconnect() {
	if s.Session != nil {
		s.Session.close()
		s.Session = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

func (sess *Session) close() {
	sess.cancel()
	sess.Port.Close()
	<-sess.done
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Serial.Device)
		}
		if err := s.Connect(); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.Serial.Device, err)
		}
		defer s.Disconnect()
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// ConnectCmd opens the serial port.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[DEVICE]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				s.Config.Serial.Device = c.Args[0]
			}
			if err := s.Connect(); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd closes the serial port.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// StatusCmd shows the latest instrument state.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"s"},
		Help:    "",
		Func: MustBeConnected(func(c *ishell.Context) {
			sess := ShellFrom(c).Session
			snapshot := sess.Store.Snapshot()
			Print(c, snapshot, FormatInfo(sess.Device.State(), sess.Device.Settings(), snapshot))
		}),
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
