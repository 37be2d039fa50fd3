package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/robotalks/vario.go/pkg/info"
)

func TestServerStreamsSnapshots(t *testing.T) {
	var store info.Store
	store.Update(func(i *info.Info) bool {
		i.ProvideBaroAltitudeTrue(850)
		i.Device.Product = "LX Eos"
		return true
	})
	s := &Server{Store: &store, Interval: 10 * time.Millisecond}
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, err := websocket.Dial(url, "", srv.URL)
	require.NoError(t, err)
	defer conn.Close()

	var snapshot info.Info
	require.NoError(t, websocket.JSON.Receive(conn, &snapshot))
	require.True(t, snapshot.BaroAltitudeTrueAvailable)
	require.Equal(t, 850.0, snapshot.BaroAltitudeTrue)
	require.Equal(t, "LX Eos", snapshot.Device.Product)

	store.Update(func(i *info.Info) bool {
		i.ProvideTotalEnergyVario(2.5)
		return true
	})
	for !snapshot.TotalEnergyVarioAvailable {
		require.NoError(t, websocket.JSON.Receive(conn, &snapshot))
	}
	require.Equal(t, 2.5, snapshot.TotalEnergyVario)
}
