package rules

import "strings"

// DefaultRainMarkers are the resistance rating codes that clear a drone for
// rain.
var DefaultRainMarkers = []string{"ip43", "ip44", "ip55"}

// WeatherOK reports whether a drone with the given resistance rating may fly
// in forecast. Fair weather is always fine; rain needs one of rainMarkers in
// the rating. Unrecognised forecasts are treated as flyable.
func WeatherOK(resistance, forecast string, rainMarkers []string) bool {
	if rainMarkers == nil {
		rainMarkers = DefaultRainMarkers
	}
	f := strings.ToLower(strings.TrimSpace(forecast))
	r := strings.ToLower(strings.TrimSpace(resistance))
	switch f {
	case "sunny", "clear", "cloudy":
		return true
	case "rainy":
		for _, m := range rainMarkers {
			if m != "" && strings.Contains(r, strings.ToLower(m)) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
