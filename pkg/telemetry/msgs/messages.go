// Package msgs defines the protobuf messages published by the daemon.
package msgs

import (
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/vario.go/pkg/info"
)

// Telemetry is a snapshot of the instrument state.
type Telemetry struct {
	Node              string  `protobuf:"bytes,1,opt,name=node,proto3" json:"node,omitempty"`
	TimestampMs       int64   `protobuf:"varint,2,opt,name=timestamp_ms,json=timestampMs,proto3" json:"timestamp_ms,omitempty"`
	LoggerRunning     bool    `protobuf:"varint,3,opt,name=logger_running,json=loggerRunning,proto3" json:"logger_running,omitempty"`
	Altitude          float64 `protobuf:"fixed64,4,opt,name=altitude,proto3" json:"altitude,omitempty"`
	AltitudeAvailable bool    `protobuf:"varint,5,opt,name=altitude_available,json=altitudeAvailable,proto3" json:"altitude_available,omitempty"`
	TrueAirspeed      float64 `protobuf:"fixed64,6,opt,name=true_airspeed,json=trueAirspeed,proto3" json:"true_airspeed,omitempty"`
	IndicatedAirspeed float64 `protobuf:"fixed64,7,opt,name=indicated_airspeed,json=indicatedAirspeed,proto3" json:"indicated_airspeed,omitempty"`
	AirspeedAvailable bool    `protobuf:"varint,8,opt,name=airspeed_available,json=airspeedAvailable,proto3" json:"airspeed_available,omitempty"`
	Vario             float64 `protobuf:"fixed64,9,opt,name=vario,proto3" json:"vario,omitempty"`
	VarioAvailable    bool    `protobuf:"varint,10,opt,name=vario_available,json=varioAvailable,proto3" json:"vario_available,omitempty"`
	WindBearing       float64 `protobuf:"fixed64,11,opt,name=wind_bearing,json=windBearing,proto3" json:"wind_bearing,omitempty"`
	WindSpeed         float64 `protobuf:"fixed64,12,opt,name=wind_speed,json=windSpeed,proto3" json:"wind_speed,omitempty"`
	WindAvailable     bool    `protobuf:"varint,13,opt,name=wind_available,json=windAvailable,proto3" json:"wind_available,omitempty"`
	MacCready         float64 `protobuf:"fixed64,14,opt,name=mac_cready,json=macCready,proto3" json:"mac_cready,omitempty"`
	Bugs              float64 `protobuf:"fixed64,15,opt,name=bugs,proto3" json:"bugs,omitempty"`
	Qnh               float64 `protobuf:"fixed64,16,opt,name=qnh,proto3" json:"qnh,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Telemetry) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Telemetry) Reset() { *m = Telemetry{} }

// String implements proto.Message.
func (m *Telemetry) String() string { return proto.CompactTextString(m) }

// TelemetryFrom converts a state snapshot.
func TelemetryFrom(node string, i info.Info) *Telemetry {
	m := &Telemetry{
		Node:              node,
		LoggerRunning:     i.LoggerRunning,
		Altitude:          i.BaroAltitudeTrue,
		AltitudeAvailable: i.BaroAltitudeTrueAvailable,
		TrueAirspeed:      i.TrueAirspeed,
		IndicatedAirspeed: i.IndicatedAirspeed,
		AirspeedAvailable: i.AirspeedAvailable,
		Vario:             i.TotalEnergyVario,
		VarioAvailable:    i.TotalEnergyVarioAvailable,
		WindAvailable:     i.ExternalWindAvailable,
		MacCready:         i.Settings.MacCready.Value,
		Bugs:              i.Settings.Bugs.Value,
		Qnh:               i.Settings.QNH.Value,
	}
	if !i.Clock.IsZero() {
		m.TimestampMs = i.Clock.UnixNano() / 1e6
	}
	if i.ExternalWindAvailable {
		m.WindBearing, m.WindSpeed = i.ExternalWind.Bearing, i.ExternalWind.Speed
	}
	return m
}

// DeviceInfo identifies the instrument, published retained.
type DeviceInfo struct {
	Product         string `protobuf:"bytes,1,opt,name=product,proto3" json:"product,omitempty"`
	Serial          string `protobuf:"bytes,2,opt,name=serial,proto3" json:"serial,omitempty"`
	SoftwareVersion string `protobuf:"bytes,3,opt,name=software_version,json=softwareVersion,proto3" json:"software_version,omitempty"`
	HardwareVersion string `protobuf:"bytes,4,opt,name=hardware_version,json=hardwareVersion,proto3" json:"hardware_version,omitempty"`
	State           string `protobuf:"bytes,5,opt,name=state,proto3" json:"state,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *DeviceInfo) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DeviceInfo) Reset() { *m = DeviceInfo{} }

// String implements proto.Message.
func (m *DeviceInfo) String() string { return proto.CompactTextString(m) }

// Settings names accepted by SettingsCommand.
const (
	SettingMacCready = "mc"
	SettingBugs      = "bugs"
)

// SettingsCommand changes one setting on the instrument. Bugs is the
// remaining efficiency fraction, 1 is clean.
type SettingsCommand struct {
	Setting string  `protobuf:"bytes,1,opt,name=setting,proto3" json:"setting,omitempty"`
	Value   float64 `protobuf:"fixed64,2,opt,name=value,proto3" json:"value,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *SettingsCommand) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SettingsCommand) Reset() { *m = SettingsCommand{} }

// String implements proto.Message.
func (m *SettingsCommand) String() string { return proto.CompactTextString(m) }
