package msgs

import (
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/vario.go/pkg/info"
)

func TestTelemetryFrom(t *testing.T) {
	var i info.Info
	i.Clock = time.Unix(1700000000, 250e6)
	i.ProvideBaroAltitudeTrue(1200)
	i.ProvideTotalEnergyVario(1.5)
	i.Settings.ProvideMacCready(2, i.Clock)

	m := TelemetryFrom("node1", i)
	require.Equal(t, "node1", m.Node)
	require.Equal(t, int64(1700000000250), m.TimestampMs)
	require.True(t, m.AltitudeAvailable)
	require.Equal(t, 1200.0, m.Altitude)
	require.True(t, m.VarioAvailable)
	require.False(t, m.AirspeedAvailable)
	require.False(t, m.WindAvailable)
	require.Equal(t, 2.0, m.MacCready)

	data, err := proto.Marshal(m)
	require.NoError(t, err)
	var decoded Telemetry
	require.NoError(t, proto.Unmarshal(data, &decoded))
	require.True(t, proto.Equal(m, &decoded))
}

func TestSettingsCommandWire(t *testing.T) {
	// setting="mc", value=1.5
	wire := []byte{0x0a, 0x02, 'm', 'c', 0x11, 0, 0, 0, 0, 0, 0, 0xf8, 0x3f}
	var cmd SettingsCommand
	require.NoError(t, proto.Unmarshal(wire, &cmd))
	require.Equal(t, SettingMacCready, cmd.Setting)
	require.Equal(t, 1.5, cmd.Value)
}
