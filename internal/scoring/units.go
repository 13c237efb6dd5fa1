package scoring

// Unit conversions live here so that the scoring functions always receive one
// canonical unit set: temperatures in °F, wind in mph, wave heights in both m
// (risk) and ft (comfort), rainfall in mm. Upstream providers report metric;
// the orchestration boundary converts once using these named functions.

// MPHFromMS converts meters per second to miles per hour.
func MPHFromMS(ms float64) float64 {
	return ms * 2.23694
}

// MSFromMPH converts miles per hour to meters per second.
func MSFromMPH(mph float64) float64 {
	return mph / 2.23694
}

// FahrenheitFromCelsius converts °C to °F.
func FahrenheitFromCelsius(c float64) float64 {
	return c*9/5 + 32
}

// CelsiusFromFahrenheit converts °F to °C.
func CelsiusFromFahrenheit(f float64) float64 {
	return (f - 32) * 5 / 9
}

// FeetFromMeters converts meters to feet.
func FeetFromMeters(m float64) float64 {
	return m * 3.28084
}

// MetersFromFeet converts feet to meters.
func MetersFromFeet(ft float64) float64 {
	return ft / 3.28084
}
