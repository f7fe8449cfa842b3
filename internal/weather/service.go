package weather

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jonboulle/clockwork"
)

// Service resolves postal codes and turns the upstream citypage into a
// WeatherRecord. It holds no mutable state and is safe for concurrent use.
type Service struct {
	provider Provider
	clock    clockwork.Clock
	logger   *slog.Logger
}

// NewService creates a new Service. A nil clock uses wall-clock time.
func NewService(provider Provider, clock clockwork.Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: provider,
		clock:    clock,
		logger:   logger,
	}
}

// GetWeather resolves postalCode and returns the normalized weather for its city.
func (s *Service) GetWeather(ctx context.Context, postalCode string) (WeatherRecord, error) {
	city, err := ResolvePostalCode(postalCode)
	if err != nil {
		return WeatherRecord{}, err
	}
	return s.FetchAndNormalize(ctx, city)
}

// FetchAndNormalize retrieves the citypage for city and normalizes it. Only
// retrieval and XML syntax errors are returned; missing or non-numeric fields
// are defaulted.
func (s *Service) FetchAndNormalize(ctx context.Context, city CityRecord) (WeatherRecord, error) {
	body, err := s.provider.FetchCitypage(ctx, city)
	if err != nil {
		s.logger.Error("citypage fetch failed", "provider", s.provider.Name(), "city", city.City, "error", err)
		var upstreamErr *UpstreamError
		if errors.As(err, &upstreamErr) {
			return WeatherRecord{}, err
		}
		return WeatherRecord{}, upstreamUnavailable(err)
	}

	doc, err := ParseCitypage(body)
	if err != nil {
		s.logger.Error("citypage parse failed", "city", city.City, "error", err)
		return WeatherRecord{}, err
	}

	record := Normalize(doc, city, s.clock.Now())
	s.logger.Debug("citypage normalized",
		"city", city.City,
		"periods", len(doc.Forecasts),
		"temperature", record.Current.TemperatureC,
	)
	return record, nil
}
