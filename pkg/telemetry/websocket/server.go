// Package websocket streams the instrument state as JSON over websocket.
package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/vario.go/pkg/info"
)

// Path serves the telemetry stream.
const Path = "/telemetry"

// DefaultInterval between two snapshots.
const DefaultInterval = 500 * time.Millisecond

// Server pushes info.Info snapshots to every connected client.
type Server struct {
	Addr     string
	Store    *info.Store
	Interval time.Duration
}

// Handler returns the websocket handler of the stream.
func (s *Server) Handler() http.Handler {
	return websocket.Handler(s.serve)
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(Path, s.Handler())
	srv := &http.Server{Addr: s.Addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		glog.Infof("websocket telemetry on %s%s", s.Addr, Path)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		return ctx.Err()
	}
}

func (s *Server) serve(conn *websocket.Conn) {
	defer conn.Close()
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	remote := conn.Request().RemoteAddr
	glog.V(1).Infof("telemetry client %s connected", remote)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := websocket.JSON.Send(conn, s.Store.Snapshot()); err != nil {
			glog.V(1).Infof("telemetry client %s gone: %v", remote, err)
			return
		}
		select {
		case <-ticker.C:
		case <-conn.Request().Context().Done():
			return
		}
	}
}
