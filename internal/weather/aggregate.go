package weather

import "github.com/i474232898/weather-proxy/internal/common"

const (
	// forecastPeriodsConsulted approximates "today and tonight".
	forecastPeriodsConsulted = 2
	// snowBuckets is how many leading hourly buckets share a period's snow.
	snowBuckets = 4
)

// PeriodTotals accumulates the first forecast periods of a citypage.
type PeriodTotals struct {
	Precipitation  float64
	Snow           float64
	MinTemperature float64
	// MaxWind is tracked but has no field in WeatherRecord.
	MaxWind    float64
	HourlySnow [snowBuckets]float64
}

// AggregatePeriods folds the first two forecast periods into running totals.
// The minimum temperature is seeded with seedTemp and the maximum wind with
// seedWind. A field that is absent or non-numeric contributes nothing.
func AggregatePeriods(periods []ForecastPeriod, seedTemp, seedWind float64) PeriodTotals {
	totals := PeriodTotals{
		MinTemperature: seedTemp,
		MaxWind:        seedWind,
	}

	if len(periods) > forecastPeriodsConsulted {
		periods = periods[:forecastPeriodsConsulted]
	}

	for _, p := range periods {
		if amount, ok := lookupNumber(p.AccumulationAmount()); ok {
			totals.Precipitation += amount
			if isSnow(p.AccumulationName()) {
				totals.Snow += amount
				for i := range totals.HourlySnow {
					totals.HourlySnow[i] += amount / snowBuckets
				}
			}
		}

		if t, ok := lookupNumber(firstNode(p.Temperatures)); ok {
			totals.MinTemperature = min(totals.MinTemperature, t)
		}

		if w, ok := lookupNumber(firstNode(p.WindSpeeds)); ok {
			totals.MaxWind = max(totals.MaxWind, w)
		}
	}

	return totals
}

func isSnow(name *TextNode) bool {
	if name == nil {
		return false
	}
	return common.ContainsFold(name.Text, "snow")
}
