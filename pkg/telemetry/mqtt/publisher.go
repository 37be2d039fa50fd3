package mqtt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/vario.go/pkg/info"
	"github.com/robotalks/vario.go/pkg/operation"
	"github.com/robotalks/vario.go/pkg/telemetry/msgs"
)

// Topics under <prefix><node>/.
const (
	TelemetryTopic = "telemetry"
	DeviceTopic    = "device"
	SettingsTopic  = "settings"
)

// DefaultInterval is the default telemetry period.
const DefaultInterval = time.Second

// ErrUnknownSetting is returned for a SettingsCommand naming no known setting.
var ErrUnknownSetting = errors.New("unknown setting")

// SettingsWriter changes settings on the instrument.
type SettingsWriter interface {
	PutMacCready(env operation.Env, mc float64) error
	PutBugs(env operation.Env, bugs float64) error
}

// Publisher publishes the state in Store and applies settings commands
// received from the broker.
type Publisher struct {
	Queue    *Queue
	Node     string
	Store    *info.Store
	Settings SettingsWriter
	Interval time.Duration
	// State reports the driver state along with the device info.
	State func() string

	cmdCh      chan *msgs.SettingsCommand
	deviceLock sync.Mutex
	lastDevice msgs.DeviceInfo
}

// NewPublisher creates a Publisher.
func NewPublisher(q *Queue, node string, store *info.Store, settings SettingsWriter) *Publisher {
	return &Publisher{
		Queue:    q,
		Node:     node,
		Store:    store,
		Settings: settings,
		Interval: DefaultInterval,
		cmdCh:    make(chan *msgs.SettingsCommand, 4),
	}
}

// Topic returns the full topic name relative to the prefix.
func (p *Publisher) Topic(name string) string {
	return p.Node + "/" + name
}

// Run implements Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	sub := p.Queue.Sub(p.Topic(SettingsTopic), p.handleSettings)
	defer sub.Close()
	p.Queue.OnConnect = func(*Queue) { p.publishDevice(true) }
	token := p.Queue.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	defer p.Queue.Close()

	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.Queue.PubWith(p.Topic(DeviceTopic), nil, 1, true).Wait()
			return ctx.Err()
		case <-ticker.C:
			p.publishTelemetry()
			p.publishDevice(false)
		case cmd := <-p.cmdCh:
			if err := ApplySettings(operation.Logged(ctx, "settings"), p.Settings, cmd); err != nil {
				glog.Errorf("settings %s: %v", cmd, err)
			}
		}
	}
}

func (p *Publisher) publishTelemetry() {
	data, err := proto.Marshal(msgs.TelemetryFrom(p.Node, p.Store.Snapshot()))
	if err != nil {
		glog.Errorf("encode telemetry: %v", err)
		return
	}
	p.Queue.Pub(p.Topic(TelemetryTopic), data)
}

// publishDevice publishes the device info retained when it changed.
func (p *Publisher) publishDevice(force bool) {
	dev := p.Store.Snapshot().Device
	m := msgs.DeviceInfo{
		Product:         dev.Product,
		Serial:          dev.Serial,
		SoftwareVersion: dev.SoftwareVersion,
		HardwareVersion: dev.HardwareVersion,
	}
	if p.State != nil {
		m.State = p.State()
	}
	p.deviceLock.Lock()
	defer p.deviceLock.Unlock()
	if !force && m == p.lastDevice {
		return
	}
	data, err := proto.Marshal(&m)
	if err != nil {
		glog.Errorf("encode device info: %v", err)
		return
	}
	p.lastDevice = m
	p.Queue.PubWith(p.Topic(DeviceTopic), data, 1, true)
}

func (p *Publisher) handleSettings(topic string, payload []byte) {
	cmd := &msgs.SettingsCommand{}
	if err := proto.Unmarshal(payload, cmd); err != nil {
		glog.Warningf("invalid settings command on %s: %v", topic, err)
		return
	}
	select {
	case p.cmdCh <- cmd:
	default:
		glog.Warningf("settings command dropped: %s", cmd)
	}
}

// ApplySettings applies cmd through w.
func ApplySettings(env operation.Env, w SettingsWriter, cmd *msgs.SettingsCommand) error {
	switch cmd.Setting {
	case msgs.SettingMacCready:
		return w.PutMacCready(env, cmd.Value)
	case msgs.SettingBugs:
		if cmd.Value < 0 || cmd.Value > 1 {
			return fmt.Errorf("bugs %v out of range [0, 1]", cmd.Value)
		}
		return w.PutBugs(env, cmd.Value)
	}
	return fmt.Errorf("%w %q", ErrUnknownSetting, cmd.Setting)
}
