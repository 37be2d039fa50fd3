// Package env provides the configuration shared by the binaries.
package env

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"github.com/robotalks/vario.go/pkg/port"
	"github.com/robotalks/vario.go/pkg/telemetry/mqtt"
)

// SerialConfig selects the serial line.
type SerialConfig struct {
	Device   string `yaml:"device"`
	BaudRate int    `yaml:"baud"`
}

// Config is the configuration of the daemon and the CLI.
type Config struct {
	Serial SerialConfig `yaml:"serial"`

	// Node names this instrument in MQTT topics, the machine id by default.
	Node string `yaml:"node"`

	// MQTTBrokerURL enables telemetry over MQTT,
	// e.g. mqtt://host:port/topic-prefix/
	MQTTBrokerURL string `yaml:"mqtt_url"`

	// HTTPAddr enables the websocket telemetry stream.
	HTTPAddr string `yaml:"http"`

	TelemetryInterval time.Duration `yaml:"telemetry_interval"`

	// IdleTimeout is the silence after which the link is considered lost.
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

var defaultConfig = Config{
	Serial: SerialConfig{
		Device:   "/dev/ttyUSB0",
		BaudRate: port.DefaultBaudRate,
	},
	TelemetryInterval: time.Second,
	IdleTimeout:       port.DefaultIdleTimeout,
}

func init() {
	applyEnv(&defaultConfig, os.Getenv)
}

func applyEnv(conf *Config, getenv func(string) string) {
	if val := getenv("LXEOS_PORT"); val != "" {
		conf.Serial.Device = val
	}
	if val := getenv("LXEOS_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil && baud > 0 {
			conf.Serial.BaudRate = baud
		} else {
			glog.Warningf("ignored invalid LXEOS_BAUD %q", val)
		}
	}
	if val := getenv("LXEOS_MQTT_URL"); val != "" {
		conf.MQTTBrokerURL = val
	}
	if val := getenv("LXEOS_HTTP"); val != "" {
		conf.HTTPAddr = val
	}
	if val := getenv("LXEOS_NODE"); val != "" {
		conf.Node = val
	}
}

// SetupFlags sets command line flags. A -config file is applied when the
// flag is parsed, so flags after it override its values.
func SetupFlags() {
	flag.Func("config", "YAML configuration file", func(path string) error {
		return LoadFile(path, &defaultConfig)
	})
	flag.StringVar(&defaultConfig.Serial.Device, "port", defaultConfig.Serial.Device, "Serial device of the instrument")
	flag.IntVar(&defaultConfig.Serial.BaudRate, "baud", defaultConfig.Serial.BaudRate, "Baud rate")
	flag.StringVar(&defaultConfig.Node, "node", defaultConfig.Node, "Node name in MQTT topics")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.StringVar(&defaultConfig.HTTPAddr, "http", defaultConfig.HTTPAddr, "Websocket telemetry listen address")
}

// LoadFile overlays the values in a YAML file onto conf.
func LoadFile(path string, conf *Config) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return fmt.Errorf("cannot parse yaml %s: %w", path, err)
	}
	return nil
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	if conf.Node == "" {
		conf.Node = MachineID()
	}
	return &conf
}

// OpenPort opens the serial line.
func (c *Config) OpenPort() (*port.Stream, error) {
	s, err := port.OpenSerial(port.SerialConfig{
		Device:   c.Serial.Device,
		BaudRate: c.Serial.BaudRate,
	})
	if err != nil {
		return nil, err
	}
	if c.IdleTimeout > 0 {
		s.IdleTimeout = c.IdleTimeout
	}
	return s, nil
}

// MustOpenPort opens the serial line and fails on error.
func (c *Config) MustOpenPort() *port.Stream {
	s, err := c.OpenPort()
	if err != nil {
		log.Fatalln(err)
	}
	return s
}

// NewQueue creates the MQTT queue, nil when MQTT isn't configured.
func (c *Config) NewQueue() (*mqtt.Queue, error) {
	if c.MQTTBrokerURL == "" {
		return nil, nil
	}
	q, err := mqtt.NewQueueFromURL(c.MQTTBrokerURL, "lxeos:"+c.Node)
	if err != nil {
		return nil, fmt.Errorf("invalid MQTT broker URL: %w", err)
	}
	return q, nil
}
