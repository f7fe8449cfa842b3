package httpapi

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-proxy/internal/observability"
	"github.com/i474232898/weather-proxy/internal/store"
	"github.com/i474232898/weather-proxy/internal/weather"
)

var validate = validator.New()

type handlers struct {
	weather *weather.Service
	ledger  *store.Ledger
	metrics *observability.Metrics
	logger  *slog.Logger
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, ledger *store.Ledger, metrics *observability.Metrics, logger *slog.Logger) {
	h := &handlers{
		weather: service,
		ledger:  ledger,
		metrics: metrics,
		logger:  logger,
	}

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"source": weather.Source,
		})
	})

	api.Get("/weather", h.getWeather)
	api.Get("/votes", h.getVotes)
	api.Post("/vote", h.submitVote)
	api.Post("/vote/change", h.changeVote)
}

func (h *handlers) getWeather(c *fiber.Ctx) error {
	record, err := h.weather.GetWeather(c.UserContext(), c.Query("postal_code"))
	if err != nil {
		status, kind, message := classifyWeatherError(err)
		h.metrics.WeatherErrors.WithLabelValues(kind).Inc()
		return c.Status(status).JSON(fiber.Map{"error": message})
	}
	return c.JSON(record)
}

func classifyWeatherError(err error) (status int, kind, message string) {
	switch {
	case errors.Is(err, weather.ErrInvalidInput):
		return fiber.StatusBadRequest, "invalid_input", "Invalid postal code"
	case errors.Is(err, weather.ErrUnsupportedRegion):
		return fiber.StatusBadRequest, "unsupported_region", "Postal code not supported"
	case errors.Is(err, weather.ErrUpstreamUnavailable):
		return fiber.StatusInternalServerError, "upstream_unavailable", "Failed to fetch weather data: " + err.Error()
	default:
		return fiber.StatusInternalServerError, "upstream_malformed", "Error processing weather data: " + err.Error()
	}
}

func (h *handlers) getVotes(c *fiber.Ctx) error {
	location := c.Query("location")
	if location == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Location required")
	}

	tally, err := h.ledger.GetVotes(location)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"location": location,
		"votes":    tally,
	})
}

// voteRequest is the body of POST /api/vote.
type voteRequest struct {
	Location string `json:"location" validate:"required"`
	Vote     string `json:"vote" validate:"required,oneof=yes no"`
}

// changeVoteRequest is the body of POST /api/vote/change.
type changeVoteRequest struct {
	Location string `json:"location" validate:"required"`
	OldVote  string `json:"oldVote" validate:"required,oneof=yes no"`
	NewVote  string `json:"newVote" validate:"required,oneof=yes no"`
}

func (h *handlers) submitVote(c *fiber.Ctx) error {
	var req voteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tally, err := h.ledger.RecordVote(req.Location, store.Choice(req.Vote))
	if err != nil {
		return err
	}
	h.metrics.VotesRecorded.WithLabelValues(req.Vote).Inc()

	return c.JSON(voteResponse(req.Location, tally))
}

func (h *handlers) changeVote(c *fiber.Ctx) error {
	var req changeVoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tally, err := h.ledger.ChangeVote(req.Location, store.Choice(req.OldVote), store.Choice(req.NewVote))
	if err != nil {
		return err
	}
	h.metrics.VotesChanged.Inc()

	return c.JSON(voteResponse(req.Location, tally))
}

func bindAndValidate(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	return nil
}

func voteResponse(location string, tally store.Tally) fiber.Map {
	return fiber.Map{
		"success":  true,
		"location": location,
		"votes":    tally,
	}
}
