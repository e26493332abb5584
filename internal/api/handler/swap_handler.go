package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

// SwapHandler exposes the swap lifecycle operations.
type SwapHandler struct {
	swapService ports.SwapService
}

func NewSwapHandler(swapService ports.SwapService) *SwapHandler {
	return &SwapHandler{swapService: swapService}
}

// Create handles POST /v1/swaps.
//
// @Summary      Propose a new swap
// @Tags         swaps
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSwapRequest  true  "Swap proposal"
// @Success      201   {object}  swapResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/swaps [post]
func (h *SwapHandler) Create(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createSwapRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	swap, err := h.swapService.Create(c.Request().Context(), ports.CreateSwapInput{
		RequesterID:    actorID,
		RecipientID:    req.RecipientID,
		SkillOffered:   req.SkillOffered,
		SkillRequested: req.SkillRequested,
		Message:        req.Message,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toSwapResponse(swap))
}

// List handles GET /v1/swaps — every swap the caller participates in. The
// client derives sent/received partitions and rating availability from the
// role slots.
//
// @Summary      List own swaps
// @Tags         swaps
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listSwapsResponse
// @Router       /v1/swaps [get]
func (h *SwapHandler) List(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	swaps, err := h.swapService.ListForUser(c.Request().Context(), actorID)
	if err != nil {
		return err
	}

	out := make([]swapResponse, 0, len(swaps))
	for _, s := range swaps {
		out = append(out, toSwapResponse(s))
	}
	return c.JSON(http.StatusOK, listSwapsResponse{Swaps: out})
}

// Accept handles PUT /v1/swaps/:id/accept.
//
// @Summary      Accept a pending swap (recipient only)
// @Tags         swaps
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Swap id"
// @Success      200  {object}  swapResponse
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/swaps/{id}/accept [put]
func (h *SwapHandler) Accept(c echo.Context) error {
	return h.transition(c, h.swapService.Accept)
}

// Reject handles PUT /v1/swaps/:id/reject.
//
// @Summary      Reject a pending swap (recipient only)
// @Tags         swaps
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Swap id"
// @Success      200  {object}  swapResponse
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/swaps/{id}/reject [put]
func (h *SwapHandler) Reject(c echo.Context) error {
	return h.transition(c, h.swapService.Reject)
}

// Cancel handles PUT /v1/swaps/:id/cancel.
//
// @Summary      Cancel a pending swap (requester only)
// @Tags         swaps
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Swap id"
// @Success      200  {object}  swapResponse
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/swaps/{id}/cancel [put]
func (h *SwapHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.swapService.Cancel)
}

// Complete handles PUT /v1/swaps/:id/complete.
//
// @Summary      Mark an accepted swap as completed (either party)
// @Tags         swaps
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Swap id"
// @Success      200  {object}  swapResponse
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/swaps/{id}/complete [put]
func (h *SwapHandler) Complete(c echo.Context) error {
	return h.transition(c, h.swapService.Complete)
}

// Rate handles POST /v1/swaps/:id/rate.
//
// @Summary      Rate a completed swap (once per party)
// @Tags         swaps
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Swap id"
// @Param        body  body      rateSwapRequest  true  "Rating"
// @Success      200   {object}  swapResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/swaps/{id}/rate [post]
func (h *SwapHandler) Rate(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req rateSwapRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	swap, err := h.swapService.Rate(c.Request().Context(), ports.RateSwapInput{
		SwapID:  c.Param("id"),
		ActorID: actorID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSwapResponse(swap))
}

func (h *SwapHandler) transition(c echo.Context, op func(ctx context.Context, swapID, actorID string) (*domain.Swap, error)) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	swap, err := op(c.Request().Context(), c.Param("id"), actorID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSwapResponse(swap))
}
