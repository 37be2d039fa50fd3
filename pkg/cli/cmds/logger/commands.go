package logger

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/vario.go/pkg/cli/sh"
	"github.com/robotalks/vario.go/pkg/lxeos"
)

var (
	// FlightsCmd lists the flights in the logger.
	FlightsCmd = ishell.Cmd{
		Name:    "flights",
		Aliases: []string{"ls"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			env, done := sh.Env(c)
			flights, err := sh.DeviceFrom(c).ReadFlightList(env)
			done()
			if flights == nil {
				flights = []lxeos.RecordedFlight{}
			}
			printFlights(c, flights)
			if err != nil {
				c.Err(err)
			}
		}),
	}

	// DownloadCmd downloads a flight.
	DownloadCmd = ishell.Cmd{
		Name:    "download",
		Aliases: []string{"dl"},
		Help:    "INDEX [FILE]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("INDEX required"))
				return
			}
			index, err := strconv.ParseUint(c.Args[0], 10, 8)
			if err != nil || index == 0 {
				c.Err(fmt.Errorf("Invalid INDEX: %q", c.Args[0]))
				return
			}
			env, done := sh.Env(c)
			defer done()
			dev := sh.DeviceFrom(c)
			flights, err := dev.ReadFlightList(env)
			if int(index) > len(flights) {
				if err == nil {
					err = fmt.Errorf("no flight %d, %d flights in logger", index, len(flights))
				}
				c.Err(err)
				return
			}
			flight := flights[index-1]
			path := fmt.Sprintf("%s-%d.igc", flight.Date, flight.FlightID)
			if len(c.Args) > 1 {
				path = c.Args[1]
			}
			if err := dev.DownloadFlight(env, flight, path); err != nil {
				c.Err(err)
				return
			}
			abs, _ := filepath.Abs(path)
			sh.Print(c, map[string]interface{}{"flight": flight, "path": abs}, "saved "+abs)
		}),
	}
)

func printFlights(c *ishell.Context, flights []lxeos.RecordedFlight) {
	if sh.ShellFrom(c).OutputJSON {
		sh.Print(c, flights, "")
		return
	}
	if len(flights) == 0 {
		c.Println("No flights")
		return
	}
	for _, f := range flights {
		c.Println(sh.FormatFlight(f))
	}
}

func init() {
	sh.AddCmds(
		&FlightsCmd,
		&DownloadCmd,
	)
}
