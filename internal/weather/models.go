package weather

// Source identifies the upstream provider in every WeatherRecord.
const Source = "Environment Canada"

// HourlyBuckets is the fixed length of every hourly series.
const HourlyBuckets = 8

// CityRecord is a supported city and its citypage feed code.
type CityRecord struct {
	City     string `json:"city"`
	FeedCode string `json:"code"`
}

// WeatherRecord is the normalized, fixed-shape weather view returned to clients.
// No field is ever omitted; missing upstream values are defaulted.
type WeatherRecord struct {
	Current Current `json:"current"`
	Hourly  Hourly  `json:"hourly"`
	Daily   Daily   `json:"daily"`
	City    string  `json:"city"`
	Source  string  `json:"source"`
}

type Current struct {
	TemperatureC  float64 `json:"temperature_2m"`
	Snowfall      float64 `json:"snowfall"`
	WindSpeedKmh  float64 `json:"wind_speed_10m"`
	Precipitation float64 `json:"precipitation"`
}

// Hourly holds parallel series aligned by index.
type Hourly struct {
	Time         []string  `json:"time"`
	Snowfall     []float64 `json:"snowfall"`
	TemperatureC []float64 `json:"temperature_2m"`
	WindSpeedKmh []float64 `json:"wind_speed_10m"`
}

// Daily holds single-element series; only one day is derived.
type Daily struct {
	SnowfallSum      []float64 `json:"snowfall_sum"`
	PrecipitationSum []float64 `json:"precipitation_sum"`
	TemperatureMin   []float64 `json:"temperature_2m_min"`
}
