package providers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/i474232898/weather-proxy/internal/observability"
	"github.com/i474232898/weather-proxy/internal/weather"
)

// DefaultEnvCanadaBaseURL is the Environment Canada citypage XML root.
const DefaultEnvCanadaBaseURL = "https://dd.weather.gc.ca/citypage_weather/xml"

// maxCitypageBytes caps the body read from the feed.
const maxCitypageBytes = 4 << 20

// EnvCanadaProvider implements weather.Provider for the Environment Canada
// citypage XML feed.
type EnvCanadaProvider struct {
	name    string
	baseURL string
	client  *http.Client
	// One breaker per feed code, so a broken feed only fails its own city.
	circuits *breakerSet
	metrics  *observability.Metrics
	logger   *slog.Logger
}

func NewEnvCanadaProvider(client *http.Client, baseURL string, metrics *observability.Metrics, logger *slog.Logger) *EnvCanadaProvider {
	if baseURL == "" {
		baseURL = DefaultEnvCanadaBaseURL
	}
	return &EnvCanadaProvider{
		name:     "envcanada",
		baseURL:  baseURL,
		client:   client,
		circuits: newBreakerSet("envcanada", 30*time.Second),
		metrics:  metrics,
		logger:   logger,
	}
}

func (p *EnvCanadaProvider) Name() string {
	return p.name
}

// CitypageURL builds <base>/<REGION>/<feedCode>_e.xml.
func (p *EnvCanadaProvider) CitypageURL(city weather.CityRecord) string {
	return fmt.Sprintf("%s/%s/%s_e.xml", p.baseURL, city.RegionSegment(), city.FeedCode)
}

func (p *EnvCanadaProvider) FetchCitypage(ctx context.Context, city weather.CityRecord) ([]byte, error) {
	u := p.CitypageURL(city)
	p.logger.Info("fetching citypage", "city", city.City, "url", u)

	start := time.Now()
	body, err := p.fetch(ctx, city.FeedCode, u)
	p.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	p.metrics.UpstreamRequests.WithLabelValues("success").Inc()
	p.logger.Debug("citypage fetched", "city", city.City, "bytes", len(body))
	return body, nil
}

func (p *EnvCanadaProvider) fetch(ctx context.Context, feedCode, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := doRequest(p.client, p.circuits.get(feedCode), req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCitypageBytes))
	if err != nil {
		return nil, fmt.Errorf("read citypage body: %w", err)
	}
	return body, nil
}
