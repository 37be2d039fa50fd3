package sh

import (
	"bytes"
	"fmt"

	"github.com/robotalks/vario.go/pkg/info"
	"github.com/robotalks/vario.go/pkg/lxeos"
)

// FormatInfo prints the instrument state for display.
func FormatInfo(state lxeos.State, settings lxeos.VarioSettings, i info.Info) string {
	var w bytes.Buffer
	dev := i.Device
	if dev.Product != "" {
		fmt.Fprintf(&w, "%s #%s sw %s hw %s, %s\n", dev.Product, dev.Serial, dev.SoftwareVersion, dev.HardwareVersion, state)
	} else {
		fmt.Fprintf(&w, "unidentified device, %s\n", state)
	}
	if settings.UpToDate {
		fmt.Fprintf(&w, "MC %.1f m/s, bugs %.0f%%, ballast %.2f\n", settings.MacCready, settings.Bugs, settings.Ballast)
	} else {
		fmt.Fprintln(&w, "settings unknown")
	}
	if i.BaroAltitudeTrueAvailable {
		fmt.Fprintf(&w, "altitude %.0f m\n", i.BaroAltitudeTrue)
	}
	if i.AirspeedAvailable {
		fmt.Fprintf(&w, "TAS %.0f km/h, IAS %.0f km/h\n", i.TrueAirspeed*3.6, i.IndicatedAirspeed*3.6)
	}
	if i.TotalEnergyVarioAvailable {
		fmt.Fprintf(&w, "vario %+.1f m/s\n", i.TotalEnergyVario)
	}
	if i.ExternalWindAvailable {
		fmt.Fprintf(&w, "wind %03.0f/%.0f km/h\n", i.ExternalWind.Bearing, i.ExternalWind.Speed*3.6)
	}
	if i.Settings.QNH.Available {
		fmt.Fprintf(&w, "QNH %.1f hPa\n", i.Settings.QNH.Value)
	}
	if i.LoggerRunningAvailable && i.LoggerRunning {
		fmt.Fprintln(&w, "logger running")
	}
	return string(bytes.TrimRight(w.Bytes(), "\n"))
}

// FormatFlight prints a flight as one line.
func FormatFlight(f lxeos.RecordedFlight) string {
	return fmt.Sprintf("%3d  %s  %s-%s  %8d bytes", f.FlightID, f.Date, f.StartTime, f.EndTime, f.FileSize)
}
