package env

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplyEnv(t *testing.T) {
	vars := map[string]string{
		"LXEOS_PORT":     "/dev/ttyACM0",
		"LXEOS_BAUD":     "57600",
		"LXEOS_MQTT_URL": "mqtt://broker:1883/vario/",
		"LXEOS_HTTP":     ":8080",
		"LXEOS_NODE":     "glider",
	}
	var conf Config
	applyEnv(&conf, func(key string) string { return vars[key] })
	require.Equal(t, Config{
		Serial:        SerialConfig{Device: "/dev/ttyACM0", BaudRate: 57600},
		Node:          "glider",
		MQTTBrokerURL: "mqtt://broker:1883/vario/",
		HTTPAddr:      ":8080",
	}, conf)

	conf = Config{Serial: SerialConfig{BaudRate: 115200}}
	applyEnv(&conf, func(key string) string {
		if key == "LXEOS_BAUD" {
			return "fast"
		}
		return ""
	})
	require.Equal(t, 115200, conf.Serial.BaudRate)
}

func TestLoadFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "env")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "lxeos.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(`
serial:
  device: /dev/ttyS1
http: ":9000"
idle_timeout: 10s
`), 0644))

	conf := Config{Serial: SerialConfig{Device: "/dev/ttyUSB0", BaudRate: 115200}, Node: "eos"}
	require.NoError(t, LoadFile(path, &conf))
	require.Equal(t, "/dev/ttyS1", conf.Serial.Device)
	require.Equal(t, 115200, conf.Serial.BaudRate)
	require.Equal(t, "eos", conf.Node)
	require.Equal(t, ":9000", conf.HTTPAddr)
	require.Equal(t, 10*time.Second, conf.IdleTimeout)

	require.NoError(t, ioutil.WriteFile(path, []byte("serial: [1"), 0644))
	require.Error(t, LoadFile(path, &conf))
	require.Error(t, LoadFile(filepath.Join(dir, "missing.yaml"), &conf))
}

func TestNewQueueDisabled(t *testing.T) {
	q, err := (&Config{}).NewQueue()
	require.NoError(t, err)
	require.Nil(t, q)

	_, err = (&Config{MQTTBrokerURL: "mqtt://broker?qos=9"}).NewQueue()
	require.Error(t, err)
}
