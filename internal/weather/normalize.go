package weather

import (
	"fmt"
	"time"
)

// Normalize reshapes a parsed citypage into a WeatherRecord for city. now
// anchors the synthetic hourly series.
func Normalize(doc *Citypage, city CityRecord, now time.Time) WeatherRecord {
	temp := extractNumber(doc.Current.Temperature, 0)
	wind := extractNumber(doc.Current.WindSpeed, 0)

	totals := AggregatePeriods(doc.Forecasts, temp, wind)

	hourly := Hourly{
		Time:         make([]string, HourlyBuckets),
		Snowfall:     make([]float64, HourlyBuckets),
		TemperatureC: make([]float64, HourlyBuckets),
		WindSpeedKmh: make([]float64, HourlyBuckets),
	}
	for i := 0; i < HourlyBuckets; i++ {
		hourly.Time[i] = formatTimestamp(now, (now.Hour()+i)%24)
		hourly.TemperatureC[i] = temp
		hourly.WindSpeedKmh[i] = wind
		if i < len(totals.HourlySnow) {
			hourly.Snowfall[i] = totals.HourlySnow[i]
		}
	}

	return WeatherRecord{
		Current: Current{
			TemperatureC: temp,
			WindSpeedKmh: wind,
		},
		Hourly: hourly,
		Daily: Daily{
			SnowfallSum:      []float64{totals.Snow},
			PrecipitationSum: []float64{totals.Precipitation},
			TemperatureMin:   []float64{totals.MinTemperature},
		},
		City:   city.City,
		Source: Source,
	}
}

// formatTimestamp renders t as a zone-less ISO datetime with its hour
// replaced. Only the wall-clock fields change, so the date does not roll
// over past 23 and hours skipped by a DST change are still printed.
// Microseconds are only printed when non-zero.
func formatTimestamp(t time.Time, hour int) string {
	s := fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d",
		t.Year(), int(t.Month()), t.Day(), hour, t.Minute(), t.Second())
	if us := t.Nanosecond() / 1000; us != 0 {
		s += fmt.Sprintf(".%06d", us)
	}
	return s
}
