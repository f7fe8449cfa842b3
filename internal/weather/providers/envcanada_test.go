package providers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-proxy/internal/observability"
	"github.com/i474232898/weather-proxy/internal/weather"
)

const citypageXML = `<?xml version="1.0" encoding="UTF-8"?>
<siteData><currentConditions><temperature units="C">1.0</temperature></currentConditions></siteData>`

var ottawa = weather.CityRecord{City: "Ottawa", FeedCode: "s0000430"}

func testProvider(baseURL string, timeout time.Duration) (*EnvCanadaProvider, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	p := NewEnvCanadaProvider(
		&http.Client{Timeout: timeout},
		baseURL,
		metrics,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return p, metrics
}

func TestEnvCanadaProvider_CitypageURL(t *testing.T) {
	p, _ := testProvider("", time.Second)
	assert.Equal(t, "https://dd.weather.gc.ca/citypage_weather/xml/S0/s0000430_e.xml", p.CitypageURL(ottawa))
}

func TestEnvCanadaProvider_FetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/xml/S0/s0000430_e.xml", r.URL.Path)
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, citypageXML)
	}))
	defer srv.Close()

	p, metrics := testProvider(srv.URL+"/xml", time.Second)
	body, err := p.FetchCitypage(context.Background(), ottawa)
	require.NoError(t, err)

	assert.Equal(t, citypageXML, string(body))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues("success")))
}

func TestEnvCanadaProvider_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer srv.Close()

	p, metrics := testProvider(srv.URL, time.Second)
	_, err := p.FetchCitypage(context.Background(), ottawa)
	require.Error(t, err)

	assert.ErrorIs(t, err, errUnexpected)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues("error")))
}

func TestEnvCanadaProvider_ServerErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p, _ := testProvider(srv.URL, time.Second)
	_, err := p.FetchCitypage(context.Background(), ottawa)

	assert.ErrorIs(t, err, errServerError)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEnvCanadaProvider_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	p, _ := testProvider(srv.URL, 50*time.Millisecond)
	_, err := p.FetchCitypage(context.Background(), ottawa)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Client.Timeout exceeded")
}

func TestEnvCanadaProvider_CircuitOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, _ := testProvider(srv.URL, time.Second)
	for i := 0; i < tripAfter; i++ {
		_, err := p.FetchCitypage(context.Background(), ottawa)
		require.ErrorIs(t, err, errServerError)
	}

	_, err := p.FetchCitypage(context.Background(), ottawa)
	assert.ErrorIs(t, err, errCircuitOpen)
	assert.Equal(t, int32(tripAfter), calls.Load())
}

func TestEnvCanadaProvider_ClientErrorsDoNotOpenCircuit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p, _ := testProvider(srv.URL, time.Second)
	for i := 0; i < 2*tripAfter; i++ {
		_, err := p.FetchCitypage(context.Background(), ottawa)
		require.ErrorIs(t, err, errUnexpected)
		require.NotErrorIs(t, err, errCircuitOpen)
	}
	assert.Equal(t, int32(2*tripAfter), calls.Load())
}

func TestEnvCanadaProvider_CircuitIsPerCity(t *testing.T) {
	toronto := weather.CityRecord{City: "Toronto", FeedCode: "s0000458"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/S0/s0000430_e.xml" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, citypageXML)
	}))
	defer srv.Close()

	p, _ := testProvider(srv.URL, time.Second)
	for i := 0; i < tripAfter; i++ {
		_, err := p.FetchCitypage(context.Background(), ottawa)
		require.ErrorIs(t, err, errServerError)
	}
	_, err := p.FetchCitypage(context.Background(), ottawa)
	require.ErrorIs(t, err, errCircuitOpen)

	body, err := p.FetchCitypage(context.Background(), toronto)
	require.NoError(t, err)
	assert.Equal(t, citypageXML, string(body))
}
