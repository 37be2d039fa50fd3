// Package info holds the instrument state the device drivers write into.
package info

import (
	"sync"
	"time"
)

// DeviceInfo identifies the connected instrument.
type DeviceInfo struct {
	Product         string `json:"product,omitempty"`
	Serial          string `json:"serial,omitempty"`
	SoftwareVersion string `json:"software_version,omitempty"`
	HardwareVersion string `json:"hardware_version,omitempty"`
}

// Wind is a speed vector, bearing in degrees (from), speed in m/s.
type Wind struct {
	Bearing float64 `json:"bearing"`
	Speed   float64 `json:"speed"`
}

// Setting is a value received from the device with the time it was received.
type Setting struct {
	Value     float64   `json:"value"`
	Available bool      `json:"available"`
	Time      time.Time `json:"time"`
}

func (s *Setting) provide(v float64, t time.Time) {
	s.Value, s.Available, s.Time = v, true, t
}

// Settings are the pilot settings reported by the device.
type Settings struct {
	MacCready Setting `json:"mac_cready"`
	// Bugs is the remaining efficiency fraction, 1 = clean.
	Bugs Setting `json:"bugs"`
	// QNH in hPa.
	QNH Setting `json:"qnh"`
}

// ProvideMacCready sets MacCready in m/s.
func (s *Settings) ProvideMacCready(mc float64, t time.Time) {
	s.MacCready.provide(mc, t)
}

// ProvideBugs sets the bugs fraction.
func (s *Settings) ProvideBugs(bugs float64, t time.Time) {
	s.Bugs.provide(bugs, t)
}

// ProvideQNH sets QNH in hPa.
func (s *Settings) ProvideQNH(qnh float64, t time.Time) {
	s.QNH.provide(qnh, t)
}

// Info is a snapshot of the instrument state.
// Values are only meaningful when the matching Available flag is set.
type Info struct {
	Clock time.Time `json:"clock"`

	LoggerRunning          bool `json:"logger_running"`
	LoggerRunningAvailable bool `json:"logger_running_available"`

	// BaroAltitudeTrue in m.
	BaroAltitudeTrue          float64 `json:"baro_altitude_true"`
	BaroAltitudeTrueAvailable bool    `json:"baro_altitude_true_available"`

	// TrueAirspeed and IndicatedAirspeed in m/s.
	TrueAirspeed      float64 `json:"true_airspeed"`
	IndicatedAirspeed float64 `json:"indicated_airspeed"`
	AirspeedAvailable bool    `json:"airspeed_available"`

	// TotalEnergyVario in m/s.
	TotalEnergyVario          float64 `json:"total_energy_vario"`
	TotalEnergyVarioAvailable bool    `json:"total_energy_vario_available"`

	ExternalWind          Wind `json:"external_wind"`
	ExternalWindAvailable bool `json:"external_wind_available"`

	Settings Settings   `json:"settings"`
	Device   DeviceInfo `json:"device"`
}

// ProvideLoggerRunning sets the logger state.
func (i *Info) ProvideLoggerRunning(running bool) {
	i.LoggerRunning, i.LoggerRunningAvailable = running, true
}

// ProvideBaroAltitudeTrue sets the true barometric altitude.
func (i *Info) ProvideBaroAltitudeTrue(alt float64) {
	i.BaroAltitudeTrue, i.BaroAltitudeTrueAvailable = alt, true
}

// ProvideTrueAirspeed sets TAS and derives IAS from the barometric altitude
// when known, otherwise IAS is assumed equal to TAS.
func (i *Info) ProvideTrueAirspeed(tas float64) {
	i.TrueAirspeed, i.AirspeedAvailable = tas, true
	if i.BaroAltitudeTrueAvailable {
		i.IndicatedAirspeed = tas / AirDensityRatio(i.BaroAltitudeTrue)
	} else {
		i.IndicatedAirspeed = tas
	}
}

// ProvideTotalEnergyVario sets the vario reading.
func (i *Info) ProvideTotalEnergyVario(v float64) {
	i.TotalEnergyVario, i.TotalEnergyVarioAvailable = v, true
}

// ProvideExternalWind sets the wind measured by the instrument.
func (i *Info) ProvideExternalWind(w Wind) {
	i.ExternalWind, i.ExternalWindAvailable = w, true
}

// Store guards an Info shared between the receiver and its readers.
type Store struct {
	info Info
	lock sync.RWMutex
}

// Update mutates the stored Info under the lock, stamping Clock.
func (s *Store) Update(fn func(*Info) bool) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.info.Clock = time.Now()
	return fn(&s.info)
}

// Snapshot returns a copy of the current Info.
func (s *Store) Snapshot() Info {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.info
}
