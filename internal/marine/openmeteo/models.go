package openmeteo

// forecastResponse is the Open-Meteo weather forecast response shape.
type forecastResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Hourly    struct {
		Time               []int64   `json:"time"`
		Temperature2M      []float64 `json:"temperature_2m"`
		RelativeHumidity2M []float64 `json:"relative_humidity_2m"`
		Precipitation      []float64 `json:"precipitation"`
		WindSpeed10M       []float64 `json:"wind_speed_10m"`
		WindDirection10M   []float64 `json:"wind_direction_10m"`
		UVIndex            []float64 `json:"uv_index"`
	} `json:"hourly"`
}

// marineResponse is the Open-Meteo marine forecast response shape.
type marineResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Hourly    struct {
		Time                  []int64   `json:"time"`
		WaveHeight            []float64 `json:"wave_height"`
		WavePeriod            []float64 `json:"wave_period"`
		WaveDirection         []float64 `json:"wave_direction"`
		SeaSurfaceTemperature []float64 `json:"sea_surface_temperature"`
	} `json:"hourly"`
}
