package httpapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/puffmon/puff/internal/assistant"
	"github.com/puffmon/puff/internal/store"
)

var validate = validator.New()

// Broadcaster pushes assistant activity to connected dashboard clients.
// Satisfied by the websocket hub; nil disables broadcasting.
type Broadcaster interface {
	BroadcastStatus(status string)
	BroadcastResponse(text string)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, engine *assistant.Engine, readings store.ReadingStore, settings store.SettingsStore, hub Broadcaster) {
	v1 := app.Group("/api/v1")

	v1.Get("/current", func(c *fiber.Ctx) error {
		latest, err := readings.Latest()
		if err != nil {
			if errors.Is(err, store.ErrNoData) {
				return fiber.NewError(fiber.StatusNotFound, "no sensor data available")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch current reading")
		}
		return c.JSON(latest)
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := readings.Range(req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNoData) {
				return fiber.NewError(fiber.StatusNotFound, "no readings for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch history")
		}

		return c.JSON(fiber.Map{
			"from":     req.From,
			"to":       req.To,
			"readings": result,
		})
	})

	v1.Post("/puff", func(c *fiber.Ctx) error {
		var req puffQuery
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(req.Query) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "query is required")
		}

		if hub != nil {
			hub.BroadcastStatus("processing")
			defer hub.BroadcastStatus("idle")
		}

		ans, err := engine.Answer(req.Query)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to answer query")
		}

		if hub != nil {
			hub.BroadcastResponse(ans.Text)
		}

		var band *string
		if ans.Band != "" {
			band = &ans.Band
		}
		return c.JSON(fiber.Map{
			"text": ans.Text,
			"band": band,
		})
	})

	if settings != nil {
		registerSettingsRoutes(v1, settings)
	}
}

func registerSettingsRoutes(v1 fiber.Router, settings store.SettingsStore) {
	v1.Get("/settings", func(c *fiber.Ctx) error {
		s, err := settings.GetSettings()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load settings")
		}
		return c.JSON(s)
	})

	v1.Put("/settings", func(c *fiber.Ctx) error {
		var s store.Settings
		if err := c.BodyParser(&s); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(s); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := settings.SaveSettings(s); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save settings")
		}
		return c.JSON(fiber.Map{"message": "settings updated"})
	})
}

type puffQuery struct {
	Query string `json:"query"`
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
