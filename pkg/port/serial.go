package port

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"
)

// SerialConfig describes the serial line to the instrument.
type SerialConfig struct {
	Device   string
	BaudRate int
	// ReadTimeout bounds each read of the background reader so
	// Close is noticed promptly.
	ReadTimeout time.Duration
}

// DefaultBaudRate is the factory setting of LX instruments.
const DefaultBaudRate = 115200

// OpenSerial opens the serial device, 8N1.
func OpenSerial(cfg SerialConfig) (*Stream, error) {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 100 * time.Millisecond
	}
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(cfg.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	if err := p.SetReadTimeout(cfg.ReadTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", cfg.Device, err)
	}
	glog.Infof("opened %s at %d baud", cfg.Device, cfg.BaudRate)
	return NewStream(p), nil
}
