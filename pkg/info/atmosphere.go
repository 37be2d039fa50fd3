package info

import "math"

// ISA constants.
const (
	// StandardPressure is the sea level pressure of the standard atmosphere in hPa.
	StandardPressure = 1013.25

	k1    = 0.190263
	invK1 = 1.0 / k1
	k2    = 8.417286e-5

	seaLevelDensity = 1.225
)

// PressureAltitudeToStaticPressure returns the static pressure (hPa)
// at the given pressure altitude (m) in the standard atmosphere.
func PressureAltitudeToStaticPressure(alt float64) float64 {
	return math.Pow(math.Pow(StandardPressure, k1)-k2*alt, invK1)
}

// StaticPressureToPressureAltitude is the inverse of
// PressureAltitudeToStaticPressure.
func StaticPressureToPressureAltitude(hpa float64) float64 {
	return (math.Pow(StandardPressure, k1) - math.Pow(hpa, k1)) / k2
}

// AirDensity returns the ISA air density (kg/m^3) at altitude (m).
func AirDensity(alt float64) float64 {
	return math.Pow((44330.8-alt)/42266.5, 1.0/0.234969)
}

// AirDensityRatio returns sqrt(rho0/rho), the factor between true and
// indicated airspeed.
func AirDensityRatio(alt float64) float64 {
	return math.Sqrt(seaLevelDensity / AirDensity(alt))
}
