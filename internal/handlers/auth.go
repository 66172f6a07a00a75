package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sketch2photo-backend/internal/models"
	"sketch2photo-backend/internal/services"
)

type AuthHandler struct {
	profiles *services.ProfileService
}

func NewAuthHandler(profiles *services.ProfileService) *AuthHandler {
	return &AuthHandler{profiles: profiles}
}

// SignUp godoc
// @Summary     Create an account
// @Description Creates a Supabase auth identity and its profile row.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.SignUpRequest true "Credentials"
// @Success     201 {object} models.ProfileResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	profile, err := h.profiles.SignUp(req.Email, req.Password, req.FullName)
	if err != nil {
		respondError(c, "failed to sign up", err)
		return
	}

	c.JSON(http.StatusCreated, models.NewProfileResponse(profile))
}

// SignIn godoc
// @Summary     Sign in with email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.SignInRequest true "Credentials"
// @Success     200 {object} models.SessionResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	session, err := h.profiles.SignIn(req.Email, req.Password)
	if err != nil {
		respondError(c, "failed to sign in", err)
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
		UserID:       session.UserID.String(),
		Email:        session.Email,
	})
}

// SignOut godoc
// @Summary     Invalidate the current session
// @Tags        auth
// @Produce     json
// @Security    Bearer
// @Success     204
// @Failure     401 {object} models.ErrorResponse
// @Router      /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.profiles.SignOut(currentToken(c)); err != nil {
		respondError(c, "failed to sign out", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdatePassword godoc
// @Summary     Change the account password
// @Description Re-authenticates with the current password before updating.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.UpdatePasswordRequest true "Passwords"
// @Success     204
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /auth/password [put]
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	if err := h.profiles.UpdatePassword(userID, currentToken(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, "failed to update password", err)
		return
	}

	c.Status(http.StatusNoContent)
}
