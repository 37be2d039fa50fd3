// Package lxeos drives LX Eos variometers: the LXWP sentences streamed by
// the instrument, settings sent back with PFLX2, and the binary protocol
// used for declarations and flight log downloads.
package lxeos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/vario.go/pkg/info"
	"github.com/robotalks/vario.go/pkg/lxeos/nmea"
	"github.com/robotalks/vario.go/pkg/operation"
	"github.com/robotalks/vario.go/pkg/port"
)

// Port is the serial link as seen by the driver.
type Port interface {
	Write(ctx context.Context, p []byte, timeout time.Duration) error
	// FullFlush discards input until the line stays quiet for quiet,
	// at most for total.
	FullFlush(ctx context.Context, quiet, total time.Duration) error
	// Flush discards input already received.
	Flush()
	ReadFull(ctx context.Context, p []byte, timeout time.Duration) port.ReadResult
	// StopRx pauses the background receiver so the driver owns all input.
	StopRx()
	StartRx()
}

// Timeouts bounds every I/O of the binary protocol.
type Timeouts struct {
	FlushQuiet time.Duration
	FlushTotal time.Duration
	Write      time.Duration
	Ack        time.Duration
	Read       time.Duration
}

// DefaultTimeouts are the timings the instrument is known to work with.
var DefaultTimeouts = Timeouts{
	FlushQuiet: 50 * time.Millisecond,
	FlushTotal: 200 * time.Millisecond,
	Write:      time.Second,
	Ack:        3 * time.Second,
	Read:       5 * time.Second,
}

// MaxAttempts is the number of tries for flight info and block requests.
const MaxAttempts = 5

// State of the driver.
type State int

// States.
const (
	Disconnected State = iota
	EnablingNMEA
	Streaming
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case EnablingNMEA:
		return "enabling-nmea"
	case Streaming:
		return "streaming"
	}
	return "unknown"
}

// EnableSentence configures the reporting periods in seconds. Odd periods
// keep LXWP2 and LXWP3 apart, the device drops LXWP3 when both are due.
const EnableSentence = "PFLX0,LXWP0,1,LXWP1,60,LXWP2,11,LXWP3,17"

// Device is the driver of one instrument.
type Device struct {
	Port     Port
	Timeouts Timeouts

	settingsLock sync.Mutex
	settings     VarioSettings

	stateLock sync.Mutex
	state     State
}

// New creates a driver talking over p.
func New(p Port) *Device {
	return &Device{
		Port:     p,
		Timeouts: DefaultTimeouts,
		settings: DefaultVarioSettings(),
	}
}

// State returns the current driver state.
func (d *Device) State() State {
	d.stateLock.Lock()
	defer d.stateLock.Unlock()
	return d.state
}

func (d *Device) setState(s State) {
	d.stateLock.Lock()
	prev := d.state
	d.state = s
	d.stateLock.Unlock()
	if prev != s {
		glog.V(1).Infof("lxeos: %s -> %s", prev, s)
	}
}

// EnableNMEA asks the device to stream the LXWP sentences.
func (d *Device) EnableNMEA(env operation.Env) error {
	d.setState(EnablingNMEA)
	if err := d.writeSentence(env, EnableSentence); err != nil {
		d.setState(Disconnected)
		return err
	}
	d.Port.Flush()
	d.setState(Streaming)
	return nil
}

// LinkTimeout is called when the device went silent. The settings mirror
// becomes unknown until the device reports it again.
func (d *Device) LinkTimeout() {
	d.settingsLock.Lock()
	d.settings.UpToDate = false
	d.settingsLock.Unlock()
	glog.V(1).Info("lxeos: link timeout, settings unknown")
}

func (d *Device) writeSentence(env operation.Env, body string) error {
	if err := d.Port.Write(env.Context(), nmea.Format(body), d.Timeouts.Write); err != nil {
		glog.Warningf("lxeos: write %s: %v", body, err)
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}

// session gives fn exclusive use of the port, the background receiver is
// resumed on every return path.
func (d *Device) session(fn func() error) error {
	d.Port.StopRx()
	defer d.Port.StartRx()
	return fn()
}

// Receiver returns the handler feeding sentences received in the
// background into store.
func (d *Device) Receiver(store *info.Store) port.LineHandler {
	return port.HandleLineFunc(func(ctx context.Context, line string) {
		if !store.Update(func(i *info.Info) bool { return d.ParseNMEA(line, i) }) {
			glog.V(3).Infof("lxeos: ignored %q", line)
		}
	})
}
