package info

// Unit conversions to system units (m, m/s, hPa).
const (
	metresPerFoot  = 0.3048
	kmhPerMetreSec = 3.6
)

// KilometersPerHour converts km/h to m/s.
func KilometersPerHour(v float64) float64 {
	return v / kmhPerMetreSec
}

// Feet converts feet to metres.
func Feet(v float64) float64 {
	return v * metresPerFoot
}
