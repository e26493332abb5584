package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/skillswap/skillswap-api/internal/core/ports"
)

// BrowseHandler exposes the match engine. It sits behind OptionalAuth: a
// valid bearer token makes the query viewer-aware, otherwise it is anonymous.
type BrowseHandler struct {
	matcher ports.MatchService
}

func NewBrowseHandler(matcher ports.MatchService) *BrowseHandler {
	return &BrowseHandler{matcher: matcher}
}

// Browse handles GET /v1/users/browse.
//
// @Summary      Browse candidate users for a skill exchange
// @Tags         users
// @Produce      json
// @Param        skill         query     string  false  "Skill term (exact, case-insensitive)"
// @Param        location      query     string  false  "Location substring"
// @Param        availability  query     []string false "Availability slots (repeatable)"
// @Param        show_all      query     bool    false  "Skip mutual-benefit filtering"
// @Param        page          query     int     false  "1-based page number"
// @Param        limit         query     int     false  "Page size"
// @Success      200           {object}  browseResponse
// @Failure      500           {object}  errorResponse
// @Router       /v1/users/browse [get]
func (h *BrowseHandler) Browse(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	showAll, _ := strconv.ParseBool(c.QueryParam("show_all"))

	result, err := h.matcher.Browse(c.Request().Context(), ports.BrowseInput{
		ViewerID:  ctxViewer(c),
		SkillTerm: c.QueryParam("skill"),
		Location:  c.QueryParam("location"),
		Slots:     c.QueryParams()["availability"],
		ShowAll:   showAll,
		Page:      page,
		PageSize:  limit,
	})
	if err != nil {
		return err
	}

	users := make([]candidateResponse, 0, len(result.Users))
	for _, card := range result.Users {
		users = append(users, toCandidateResponse(card))
	}

	return c.JSON(http.StatusOK, browseResponse{Users: users, Total: result.Total})
}
