package rest

import (
	"log/slog"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/warebase/warebase/internal/domain"
	"github.com/warebase/warebase/internal/present/rest/middleware"
	"github.com/warebase/warebase/internal/present/rest/presenter"
	"github.com/warebase/warebase/internal/usecase"
)

type InventoryHandler struct {
	items *usecase.ItemUsecase
}

func NewInventoryHandler(items *usecase.ItemUsecase) *InventoryHandler {
	return &InventoryHandler{items: items}
}

func (h *InventoryHandler) RegisterRoutes(e *echo.Echo, auth *middleware.AuthMiddleware) {
	g := e.Group("/api/v1/inventory")
	g.POST("/create", h.handleCreate, auth.Require(middleware.LevelToken))
	g.POST("/create/bulk", h.handleBulkCreate, auth.Require(middleware.LevelToken))
	g.GET("/items", h.handleList, auth.Require(middleware.LevelToken))
	g.GET("/items/search", h.handleSearch, auth.Require(middleware.LevelToken))
	g.GET("/items/:id", h.handleDetail, auth.Require(middleware.LevelToken))
	g.PATCH("/items/:id", h.handleUpdate, auth.Require(middleware.LevelToken))
	g.DELETE("/items/:id", h.handleDelete, auth.Require(middleware.LevelToken))
	g.DELETE("/items/delete/bulk", h.handleBulkDelete, auth.Require(middleware.LevelToken))
}

func (h *InventoryHandler) handleCreate(c echo.Context) error {
	ctx := c.Request().Context()

	var input usecase.ItemInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}

	item, err := h.items.Create(ctx, input)
	if err != nil {
		var invalid domain.InvalidInputError
		if errors.As(err, &invalid) {
			return presenter.BadRequest(c, invalid.Reason)
		}
		slog.ErrorContext(
			ctx, "Error creating item",
			slog.String("name", input.Name),
			slog.String("error", err.Error()),
			slog.String("module", "inventory"),
		)
		return presenter.BadRequest(c, "error creating item")
	}

	return presenter.Created(c, echo.Map{
		"message": "item created",
		"item":    item,
	})
}

type bulkCreateRequest struct {
	Items []usecase.ItemInput `json:"items"`
}

func (h *InventoryHandler) handleBulkCreate(c echo.Context) error {
	ctx := c.Request().Context()

	var req bulkCreateRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}

	items, err := h.items.CreateMany(ctx, req.Items)
	if err != nil {
		var invalid domain.InvalidInputError
		if errors.As(err, &invalid) {
			return presenter.BadRequest(c, invalid.Reason)
		}
		slog.ErrorContext(
			ctx, "Error bulk creating items",
			slog.Int("requested", len(req.Items)),
			slog.String("error", err.Error()),
			slog.String("module", "inventory"),
		)
		return presenter.BadRequest(c, "error creating items")
	}

	return presenter.Created(c, echo.Map{
		"message": "items created",
		"count":   len(items),
		"items":   items,
	})
}

func (h *InventoryHandler) handleList(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset, err := paginationParams(c)
	if err != nil {
		return presenter.BadRequest(c, err.Error())
	}

	items, err := h.items.List(ctx, limit, offset, c.QueryParam("sku"))
	if err != nil {
		slog.ErrorContext(
			ctx, "Error listing items",
			slog.String("error", err.Error()),
			slog.String("module", "inventory"),
		)
		return presenter.BadRequest(c, "error listing items")
	}

	return presenter.OK(c, echo.Map{
		"message": "items retrieved",
		"items":   items,
	})
}

func (h *InventoryHandler) handleDetail(c echo.Context) error {
	ctx := c.Request().Context()

	item, err := h.items.Get(ctx, c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		return presenter.NotFound(c, "item not found")
	}
	if err != nil {
		return presenter.BadRequest(c, "error retrieving item")
	}

	return presenter.OK(c, echo.Map{
		"message": "item retrieved",
		"item":    item,
	})
}

func (h *InventoryHandler) handleUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	var patch domain.ItemPatch
	if err := c.Bind(&patch); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}

	item, err := h.items.Update(ctx, c.Param("id"), patch)
	if err != nil {
		var invalid domain.InvalidInputError
		if errors.As(err, &invalid) {
			return presenter.BadRequest(c, invalid.Reason)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "item not found")
		}
		slog.ErrorContext(
			ctx, "Error updating item",
			slog.String("id", c.Param("id")),
			slog.String("error", err.Error()),
			slog.String("module", "inventory"),
		)
		return presenter.BadRequest(c, "error updating item")
	}

	return presenter.OK(c, echo.Map{
		"message": "item updated",
		"item":    item,
	})
}

func (h *InventoryHandler) handleDelete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.items.Delete(ctx, c.Param("id")); err != nil {
		slog.ErrorContext(
			ctx, "Error deleting item",
			slog.String("id", c.Param("id")),
			slog.String("error", err.Error()),
			slog.String("module", "inventory"),
		)
		return presenter.BadRequest(c, "error deleting item")
	}

	return presenter.ResetContent(c, echo.Map{"message": "item deleted"})
}

func (h *InventoryHandler) handleBulkDelete(c echo.Context) error {
	ctx := c.Request().Context()

	var req bulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}

	count, err := h.items.BulkDelete(ctx, req.IDs)
	if err != nil {
		var invalid domain.InvalidInputError
		if errors.As(err, &invalid) {
			return presenter.BadRequest(c, invalid.Reason)
		}
		slog.ErrorContext(
			ctx, "Error bulk deleting items",
			slog.Int("requested", len(req.IDs)),
			slog.String("error", err.Error()),
			slog.String("module", "inventory"),
		)
		return presenter.BadRequest(c, "error deleting items")
	}

	return presenter.ResetContent(c, echo.Map{
		"message": "items deleted",
		"count":   count,
	})
}

func (h *InventoryHandler) handleSearch(c echo.Context) error {
	ctx := c.Request().Context()

	query := c.QueryParam("q")

	limit := 20
	limitStr := c.QueryParam("limit")
	if limitStr != "" {
		limitInt, err := strconv.Atoi(limitStr)
		if err != nil || limitInt < 1 {
			return presenter.BadRequest(c, "invalid limit parameter")
		}
		limit = limitInt
	}
	if limit > 100 {
		limit = 100
	}

	matches, err := h.items.Search(ctx, query, limit)
	if err != nil {
		var invalid domain.InvalidInputError
		if errors.As(err, &invalid) {
			return presenter.BadRequest(c, invalid.Reason)
		}
		slog.ErrorContext(
			ctx, "Error searching items",
			slog.String("query", query),
			slog.String("error", err.Error()),
			slog.String("module", "inventory"),
		)
		return presenter.BadRequest(c, "error searching items")
	}

	return presenter.OK(c, echo.Map{
		"message": "search results",
		"results": matches,
	})
}
