package lxeos

import (
	"github.com/robotalks/vario.go/pkg/info"
	"github.com/robotalks/vario.go/pkg/lxeos/nmea"
)

// MaxTrueAirspeed and MinTrueAirspeed bound a plausible TAS in km/h.
const (
	MinTrueAirspeed = -50
	MaxTrueAirspeed = 400
)

// VarioFIR is the low-pass filter applied to the six vario samples of LXWP0.
var VarioFIR = [6]float64{-0.0421, 0.1628, 0.3793, 0.3793, 0.1628, -0.0421}

// ParseNMEA applies one received sentence to state. It returns false for
// sentences with a bad checksum, unknown types and rejected content, in
// which case state is not touched.
func (d *Device) ParseNMEA(sentence string, state *info.Info) bool {
	if !nmea.VerifyChecksum(sentence) {
		return false
	}
	line := nmea.NewLine(sentence)
	switch line.Read() {
	case "$LXWP0":
		return parseLXWP0(line, state)
	case "$LXWP1":
		return parseLXWP1(line, &state.Device)
	case "$LXWP2":
		return d.parseLXWP2(line, state)
	case "$LXWP3":
		return parseLXWP3(line, state)
	}
	return false
}

// $LXWP0,Y,119.4,1717.6,0.02,0.02,0.02,0.02,0.02,0.02,,000,107.2*5b
//
// logger running, TAS km/h, altitude m, 6 vario samples m/s, heading,
// an undocumented empty field, wind direction deg, wind speed km/h.
func parseLXWP0(line *nmea.Line, state *info.Info) bool {
	logger := line.Read()
	tas, tasOK := line.ReadFloat()
	if tasOK && (tas < MinTrueAirspeed || tas > MaxTrueAirspeed) {
		return false
	}
	switch logger {
	case "Y":
		state.ProvideLoggerRunning(true)
	case "N":
		state.ProvideLoggerRunning(false)
	}

	if alt, ok := line.ReadFloat(); ok {
		state.ProvideBaroAltitudeTrue(alt)
	}
	// after altitude, so IAS is derived from this altitude
	if tasOK {
		state.ProvideTrueAirspeed(info.KilometersPerHour(tas))
	}

	var samples [6]float64
	varioOK := true
	for n := range samples {
		v, ok := line.ReadFloat()
		samples[n], varioOK = v, varioOK && ok
	}
	if varioOK {
		state.ProvideTotalEnergyVario(FilterVario(samples))
	}

	line.Skip(2)
	dir, dirOK := line.ReadFloat()
	speed, speedOK := line.ReadFloat()
	if dirOK && speedOK {
		state.ProvideExternalWind(info.Wind{
			Bearing: dir,
			Speed:   info.KilometersPerHour(speed),
		})
	}
	return true
}

// FilterVario applies VarioFIR to samples.
func FilterVario(samples [6]float64) float64 {
	var v float64
	for n, b := range VarioFIR {
		v += samples[n] * b
	}
	return v
}

// $LXWP1,product,serial,software version,hardware version
func parseLXWP1(line *nmea.Line, dev *info.DeviceInfo) bool {
	dev.Product = line.Read()
	dev.Serial = line.Read()
	dev.SoftwareVersion = line.Read()
	dev.HardwareVersion = line.Read()
	return true
}

// $LXWP2,mc,load factor,bugs %,polar a,polar b,polar c,volume
func (d *Device) parseLXWP2(line *nmea.Line, state *info.Info) bool {
	mc, ok := line.ReadFloat()
	if !ok {
		return false
	}
	ballast, ok := line.ReadFloat()
	if !ok {
		return false
	}
	bugs, ok := line.ReadFloat()
	if !ok {
		return false
	}
	state.Settings.ProvideMacCready(mc, state.Clock)
	state.Settings.ProvideBugs(BugsFromDevice(bugs), state.Clock)
	d.replaceSettings(VarioSettings{MacCready: mc, Bugs: bugs, Ballast: ballast})
	return true
}

// $LXWP3,altitude offset ft,... only the offset is used, for QNH.
func parseLXWP3(line *nmea.Line, state *info.Info) bool {
	if offset, ok := line.ReadFloat(); ok {
		qnh := info.PressureAltitudeToStaticPressure(info.Feet(-offset))
		state.Settings.ProvideQNH(qnh, state.Clock)
	}
	return true
}
