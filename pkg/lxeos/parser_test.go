package lxeos

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/vario.go/pkg/info"
	"github.com/robotalks/vario.go/pkg/lxeos/nmea"
)

func sentence(body string) string {
	return strings.TrimRight(string(nmea.Format(body)), "\r\n")
}

func TestCRC8(t *testing.T) {
	require.Equal(t, byte(0x73), CRC8([]byte("123456789"), CRCSeed))
	require.Equal(t, CRCSeed, CRC8(nil, CRCSeed))

	testCases := [][]byte{
		{0x00},
		{ACK, 0x05},
		[]byte("LX Eos"),
		{0xFF, 0xFF, 0xFF, 0x80, 0x01},
	}
	for _, data := range testCases {
		frame := AppendCRC(append([]byte(nil), data...))
		require.Equal(t, byte(0), CRC8(frame, CRCSeed), "% x", data)
		// segment by segment
		crc := CRC8(frame[:1], CRCSeed)
		crc = CRC8(frame[1:len(frame)-1], crc)
		require.Equal(t, byte(0), CRC8(frame[len(frame)-1:], crc), "% x", data)
	}
}

func TestFilterVario(t *testing.T) {
	samples := [6]float64{1.5, -0.3, 2.25, 0.7, 3.1, -1.2}
	expected := -0.0421*1.5 + 0.1628*-0.3 + 0.3793*2.25 + 0.3793*0.7 + 0.1628*3.1 + -0.0421*-1.2
	require.InDelta(t, expected, FilterVario(samples), 1e-6)
	require.InDelta(t, 1.0, FilterVario([6]float64{1, 1, 1, 1, 1, 1}), 1e-6)
}

func TestParseLXWP0(t *testing.T) {
	d := New(newFakePort(nil))
	var state info.Info
	require.True(t, d.ParseNMEA(sentence("LXWP0,Y,108.0,1717.6,1,2,3,4,5,6,,,270,36"), &state))

	require.True(t, state.LoggerRunningAvailable)
	require.True(t, state.LoggerRunning)
	require.True(t, state.BaroAltitudeTrueAvailable)
	require.Equal(t, 1717.6, state.BaroAltitudeTrue)
	require.True(t, state.AirspeedAvailable)
	require.InDelta(t, 30.0, state.TrueAirspeed, 1e-9)
	require.InDelta(t, 30.0/info.AirDensityRatio(1717.6), state.IndicatedAirspeed, 1e-9)
	require.True(t, state.IndicatedAirspeed < state.TrueAirspeed)
	require.True(t, state.TotalEnergyVarioAvailable)
	require.InDelta(t, FilterVario([6]float64{1, 2, 3, 4, 5, 6}), state.TotalEnergyVario, 1e-6)
	require.True(t, state.ExternalWindAvailable)
	require.Equal(t, 270.0, state.ExternalWind.Bearing)
	require.InDelta(t, 10.0, state.ExternalWind.Speed, 1e-9)
}

func TestParseLXWP0Partial(t *testing.T) {
	d := New(newFakePort(nil))
	var state info.Info
	require.True(t, d.ParseNMEA(sentence("LXWP0,N,,512,1,2,3,,5,6,,,270,"), &state))
	require.True(t, state.LoggerRunningAvailable)
	require.False(t, state.LoggerRunning)
	require.False(t, state.AirspeedAvailable)
	require.Equal(t, 512.0, state.BaroAltitudeTrue)
	require.False(t, state.TotalEnergyVarioAvailable)
	require.False(t, state.ExternalWindAvailable)
}

func TestParseRejects(t *testing.T) {
	testCases := []struct {
		name string
		line string
	}{
		{"implausible airspeed", sentence("LXWP0,Y,500,1717.6,1,2,3,4,5,6,,,270,36")},
		{"negative airspeed", sentence("LXWP0,Y,-51,1717.6,1,2,3,4,5,6,,,270,36")},
		{"bad checksum", "$LXWP0,Y,108.0,1717.6,1,2,3,4,5,6,,,270,36*00"},
		{"no checksum", "$LXWP1,LX Eos,1234,1.2,2.0"},
		{"unknown", sentence("LXWP9,1,2")},
		{"settings without bugs", sentence("LXWP2,1.5,1.10,,1,2,3,50")},
		{"settings malformed", sentence("LXWP2,x,1.10,20,1,2,3,50")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := New(newFakePort(nil))
			var state info.Info
			require.False(t, d.ParseNMEA(tc.line, &state))
			require.Equal(t, info.Info{}, state)
			require.False(t, d.Settings().UpToDate)
		})
	}
}

func TestParseLXWP1(t *testing.T) {
	d := New(newFakePort(nil))
	var state info.Info
	require.True(t, d.ParseNMEA(sentence("LXWP1,LX Eos,4711,1.6,2.0"), &state))
	require.Equal(t, info.DeviceInfo{
		Product:         "LX Eos",
		Serial:          "4711",
		SoftwareVersion: "1.6",
		HardwareVersion: "2.0",
	}, state.Device)
}

func TestParseLXWP2(t *testing.T) {
	d := New(newFakePort(nil))
	var state info.Info
	require.True(t, d.ParseNMEA(sentence("LXWP2,1.5,1.10,20,1.1,-2.2,3.3,50"), &state))
	require.True(t, state.Settings.MacCready.Available)
	require.Equal(t, 1.5, state.Settings.MacCready.Value)
	require.InDelta(t, 0.8, state.Settings.Bugs.Value, 1e-9)
	require.Equal(t, VarioSettings{MacCready: 1.5, Bugs: 20, Ballast: 1.1, UpToDate: true}, d.Settings())
}

func TestParseLXWP3(t *testing.T) {
	d := New(newFakePort(nil))
	var state info.Info
	require.True(t, d.ParseNMEA(sentence("LXWP3,0,1,,100,5,2,0.5,1,100,LS8,"), &state))
	require.True(t, state.Settings.QNH.Available)
	require.InDelta(t, info.StandardPressure, state.Settings.QNH.Value, 1e-6)

	require.True(t, d.ParseNMEA(sentence("LXWP3,500"), &state))
	require.True(t, state.Settings.QNH.Value > info.StandardPressure)

	state = info.Info{}
	require.True(t, d.ParseNMEA(sentence("LXWP3,,1"), &state))
	require.False(t, state.Settings.QNH.Available)
}

func TestBugsRoundTrip(t *testing.T) {
	require.InDelta(t, 0.8, BugsFromDevice(20), 1e-9)
	require.InDelta(t, 20.0, BugsToDevice(BugsFromDevice(20)), 1e-9)
	require.InDelta(t, 1.0, BugsFromDevice(0), 1e-9)
	require.InDelta(t, 0.0, BugsToDevice(1), 1e-9)
}
