package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/vario.go/pkg/env"
	"github.com/robotalks/vario.go/pkg/framework"
	"github.com/robotalks/vario.go/pkg/info"
	"github.com/robotalks/vario.go/pkg/lxeos"
	"github.com/robotalks/vario.go/pkg/operation"
	"github.com/robotalks/vario.go/pkg/telemetry/mqtt"
	"github.com/robotalks/vario.go/pkg/telemetry/websocket"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := env.NewConfig()
	q, err := conf.NewQueue()
	if err != nil {
		glog.Exit(err)
	}

	stream := conf.MustOpenPort()
	defer stream.Close()
	dev := lxeos.New(stream)

	var store info.Store
	stream.Handler = dev.Receiver(&store)
	stream.OnIdle = func(context.Context) {
		glog.Warning("no data from instrument, settings marked stale")
		dev.LinkTimeout()
	}

	runner := framework.NewRunner().HandleSignals()
	runner.Go(framework.NamedRun("serial", stream))
	if err := dev.EnableNMEA(operation.Logged(runner.Context, "enable-nmea")); err != nil {
		glog.Errorf("enable sentences on %s: %v", conf.Serial.Device, err)
	}

	if q != nil {
		pub := mqtt.NewPublisher(q, conf.Node, &store, dev)
		pub.Interval = conf.TelemetryInterval
		pub.State = func() string { return dev.State().String() }
		runner.Go(framework.NamedRun("mqtt", pub))
	}
	if conf.HTTPAddr != "" {
		runner.Go(framework.NamedRun("websocket", &websocket.Server{
			Addr:  conf.HTTPAddr,
			Store: &store,
		}))
	}

	if err := runner.Wait(); err != nil && err != context.Canceled {
		glog.Error(err)
		glog.Flush()
		os.Exit(1)
	}
}
