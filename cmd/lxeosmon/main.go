package main

import (
	"flag"
	"log"
	"os"
	"path"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/vario.go/pkg/telemetry/mqtt"
	"github.com/robotalks/vario.go/pkg/telemetry/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/lxeos/"
)

func init() {
	if val := os.Getenv("LXEOS_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func decode(topic string, payload []byte) (proto.Message, error) {
	var msg proto.Message
	switch path.Base(topic) {
	case mqtt.TelemetryTopic:
		msg = &msgs.Telemetry{}
	case mqtt.DeviceTopic:
		msg = &msgs.DeviceInfo{}
	case mqtt.SettingsTopic:
		msg = &msgs.SettingsCommand{}
	default:
		return nil, nil
	}
	return msg, proto.Unmarshal(payload, msg)
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL, "lxeosmon")
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}

	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		if len(payload) == 0 {
			log.Printf("%s: (cleared)", topic)
			return
		}
		msg, err := decode(topic, payload)
		if err != nil {
			log.Printf("%s: decode error: %v", topic, err)
			return
		}
		if msg == nil {
			log.Printf("%s: %d bytes", topic, len(payload))
			return
		}
		log.Printf("%s: %s", topic, msg.String())
	}))
	<-(chan struct{})(nil)
}
