package snapshots

import (
	"errors"

	"schema-drift/core/logger"
	"schema-drift/core/snapshot"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for snapshots and drift reports.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the snapshot routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/snapshots")
	group.Get("/", h.HandleList)
	group.Get("/latest", h.HandleLatest)
	group.Get("/:name", h.HandleGet)
	app.Get("/drift", h.HandleDrift)
}

// HandleList returns the stored snapshot names in capture order.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	entries, err := h.service.List(c.Context())
	if err != nil {
		return h.fail(c, "Listing snapshots failed", err)
	}
	return c.JSON(fiber.Map{"snapshots": entries, "count": len(entries)})
}

// HandleLatest returns the most recent snapshot.
func (h *Handler) HandleLatest(c *fiber.Ctx) error {
	snap, name, err := h.service.Latest(c.Context())
	if err != nil {
		return h.fail(c, "Loading latest snapshot failed", err)
	}
	return c.JSON(fiber.Map{"name": name, "snapshot": snap})
}

// HandleGet returns one snapshot by name.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	name := c.Params("name")
	snap, err := h.service.Get(c.Context(), name)
	if err != nil {
		return h.fail(c, "Loading snapshot failed", err)
	}
	return c.JSON(fiber.Map{"name": name, "snapshot": snap})
}

// HandleDrift diffs ?from= against ?to=, defaulting to the latest two snapshots.
func (h *Handler) HandleDrift(c *fiber.Ctx) error {
	report, err := h.service.Drift(c.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		return h.fail(c, "Drift report failed", err)
	}
	return c.JSON(report)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, snapshot.ErrInvalidName):
		status = fiber.StatusBadRequest
	case errors.Is(err, snapshot.ErrNoSnapshot), errors.Is(err, ErrNotEnoughSnapshots):
		status = fiber.StatusNotFound
	}

	l := logger.WithRayID(h.service.logger, c)
	if status == fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Debug(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
