package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

// UserHandler handles profile reads and owner/admin mutations.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Get handles GET /v1/users/:id.
//
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userService.GetProfile(c.Request().Context(), c.Param("id"), ctxViewer(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user, false))
}

// UpdateProfile handles PUT /v1/users/profile.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile patch"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := ports.ProfilePatch{
		Name:     req.Name,
		Location: req.Location,
		IsPublic: req.IsPublic,
	}
	if req.Availability != nil {
		patch.Availability = &domain.Availability{
			Weekdays: req.Availability.Weekdays,
			Weekends: req.Availability.Weekends,
			Evenings: req.Availability.Evenings,
			Mornings: req.Availability.Mornings,
		}
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), actorID, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user, true))
}

// AddSkillOffered handles POST /v1/users/skills-offered.
//
// @Summary      Add an offered skill
// @Tags         skills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      skillRequest  true  "Skill to add"
// @Success      200   {object}  skillListResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/users/skills-offered [post]
func (h *UserHandler) AddSkillOffered(c echo.Context) error {
	return h.addSkill(c, h.userService.AddSkillOffered)
}

// RemoveSkillOffered handles DELETE /v1/users/skills-offered/:skill.
//
// @Summary      Remove an offered skill
// @Tags         skills
// @Produce      json
// @Security     BearerAuth
// @Param        skill  path      string  true  "Skill to remove"
// @Success      200    {object}  skillListResponse
// @Router       /v1/users/skills-offered/{skill} [delete]
func (h *UserHandler) RemoveSkillOffered(c echo.Context) error {
	return h.removeSkill(c, h.userService.RemoveSkillOffered)
}

// AddSkillWanted handles POST /v1/users/skills-wanted.
//
// @Summary      Add a wanted skill
// @Tags         skills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      skillRequest  true  "Skill to add"
// @Success      200   {object}  skillListResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/users/skills-wanted [post]
func (h *UserHandler) AddSkillWanted(c echo.Context) error {
	return h.addSkill(c, h.userService.AddSkillWanted)
}

// RemoveSkillWanted handles DELETE /v1/users/skills-wanted/:skill.
//
// @Summary      Remove a wanted skill
// @Tags         skills
// @Produce      json
// @Security     BearerAuth
// @Param        skill  path      string  true  "Skill to remove"
// @Success      200    {object}  skillListResponse
// @Router       /v1/users/skills-wanted/{skill} [delete]
func (h *UserHandler) RemoveSkillWanted(c echo.Context) error {
	return h.removeSkill(c, h.userService.RemoveSkillWanted)
}

// SetSkillDescription handles POST /v1/users/skills-offered/:skill/description.
//
// @Summary      Set the description of an offered skill
// @Tags         skills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        skill  path      string              true  "Offered skill"
// @Param        body   body      descriptionRequest  true  "Description"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  errorResponse
// @Router       /v1/users/skills-offered/{skill}/description [post]
func (h *UserHandler) SetSkillDescription(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req descriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	skill := c.Param("skill")
	if err := h.userService.SetSkillDescription(c.Request().Context(), actorID, skill, req.Description); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"skill": skill, "description": req.Description})
}

// ListSkillDescriptions handles GET /v1/admin/skill-descriptions.
//
// @Summary      List all skill descriptions for moderation
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  skillDescriptionResponse
// @Router       /v1/admin/skill-descriptions [get]
func (h *UserHandler) ListSkillDescriptions(c echo.Context) error {
	entries, err := h.userService.ListSkillDescriptions(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]skillDescriptionResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, skillDescriptionResponse{
			UserID:      e.UserID,
			UserName:    e.UserName,
			Skill:       e.Skill,
			Description: e.Description,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// RemoveSkillDescription handles DELETE /v1/admin/users/:id/skills/:skill/description.
//
// @Summary      Remove an inappropriate skill description
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true  "User id"
// @Param        skill  path      string  true  "Skill"
// @Success      200    {object}  map[string]string
// @Failure      404    {object}  errorResponse
// @Router       /v1/admin/users/{id}/skills/{skill}/description [delete]
func (h *UserHandler) RemoveSkillDescription(c echo.Context) error {
	if err := h.userService.RemoveSkillDescription(c.Request().Context(), c.Param("id"), c.Param("skill")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "skill description removed"})
}

// SetBanned handles PUT /v1/admin/users/:id/ban.
//
// @Summary      Ban or unban a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string      true  "User id"
// @Param        body  body      banRequest  true  "Ban flag"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/users/{id}/ban [put]
func (h *UserHandler) SetBanned(c echo.Context) error {
	var req banRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.SetBanned(c.Request().Context(), c.Param("id"), *req.Banned); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "ban flag updated"})
}

func (h *UserHandler) addSkill(c echo.Context, op func(ctx context.Context, id, skill string) ([]string, error)) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req skillRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	skills, err := op(c.Request().Context(), actorID, req.Skill)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, skillListResponse{Skills: skills})
}

func (h *UserHandler) removeSkill(c echo.Context, op func(ctx context.Context, id, skill string) ([]string, error)) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	skills, err := op(c.Request().Context(), actorID, c.Param("skill"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, skillListResponse{Skills: skills})
}
