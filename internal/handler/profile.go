package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/managers/internal/domain"
	"github.com/sumire/managers/internal/service"
)

// ProfileHandler serves the authenticated profile API.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type meResponse struct {
	ID      string         `json:"id"`
	Profile domain.Profile `json:"profile"`
}

type updateProfileRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Alt   string `json:"alt"`
}

type addManagerRequest struct {
	ID       string  `json:"id" validate:"required,excludesall=0x2C"`
	Expected *string `json:"expected"`
}

type managerIDsResponse struct {
	Managers domain.ManagerList `json:"managers"`
}

type managersResponse struct {
	Managers []domain.UserSummary `json:"managers"`
}

// Me returns the caller's own Slack profile.
func (h *ProfileHandler) Me(c echo.Context) error {
	session, ok := GetSession(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	profile, err := h.profiles.GetOwnProfile(c.Request().Context(), session)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, meResponse{ID: session.UserID, Profile: profile})
}

// User looks up another workspace member.
func (h *ProfileHandler) User(c echo.Context) error {
	session, ok := GetSession(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	summary, err := h.profiles.GetUserSummary(c.Request().Context(), session, c.Param("userId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

// UpdateProfile writes a single field of the caller's profile.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	session, ok := GetSession(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}

	field, err := domain.ParseProfileField(req.Field)
	if err != nil {
		return err
	}

	err = h.profiles.UpdateField(c.Request().Context(), session, domain.ProfileFieldUpdate{
		Field: field,
		Value: req.Value,
		Alt:   req.Alt,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Managers lists the caller's managers.
func (h *ProfileHandler) Managers(c echo.Context) error {
	session, ok := GetSession(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	managers, err := h.profiles.Managers(c.Request().Context(), session)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, managersResponse{Managers: managers})
}

// AddManager adds a user to the caller's manager list.
func (h *ProfileHandler) AddManager(c echo.Context) error {
	session, ok := GetSession(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req addManagerRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	list, err := h.profiles.AddManager(c.Request().Context(), session, req.ID, req.Expected)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, managerIDsResponse{Managers: nonNil(list)})
}

// RemoveManager removes a user from the caller's manager list. An optional
// "expected" query parameter guards against concurrent edits.
func (h *ProfileHandler) RemoveManager(c echo.Context) error {
	session, ok := GetSession(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var expected *string
	if c.QueryParams().Has("expected") {
		v := c.QueryParam("expected")
		expected = &v
	}

	list, err := h.profiles.RemoveManager(c.Request().Context(), session, c.Param("userId"), expected)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, managerIDsResponse{Managers: nonNil(list)})
}

func nonNil(list domain.ManagerList) domain.ManagerList {
	if list == nil {
		return domain.ManagerList{}
	}
	return list
}
