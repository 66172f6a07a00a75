package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"sketch2photo-backend/internal/models"
	"sketch2photo-backend/internal/services"
)

type ProfilesHandler struct {
	profiles *services.ProfileService
}

func NewProfilesHandler(profiles *services.ProfileService) *ProfilesHandler {
	return &ProfilesHandler{profiles: profiles}
}

// Get godoc
// @Summary     Fetch the caller's profile
// @Description Creates the profile row first if it does not exist yet.
// @Tags        profile
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.ProfileResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /profile [get]
func (h *ProfilesHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfile(userID, currentEmail(c))
	if err != nil {
		respondError(c, "failed to get profile", err)
		return
	}

	c.JSON(http.StatusOK, models.NewProfileResponse(profile))
}

// Update godoc
// @Summary     Update profile fields
// @Description Omitted fields are left unchanged. Username changes are rejected when already taken.
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.UpdateProfileRequest true "Fields to change"
// @Success     200 {object} models.ProfileResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /profile [put]
func (h *ProfilesHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	profile, err := h.profiles.UpdateProfile(userID, models.ProfileUpdate{
		Username: req.Username,
		FullName: req.FullName,
		Bio:      req.Bio,
	})
	if err != nil {
		respondError(c, "failed to update profile", err)
		return
	}

	c.JSON(http.StatusOK, models.NewProfileResponse(profile))
}

// UploadAvatar godoc
// @Summary     Upload a profile picture
// @Tags        profile
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       avatar formData file true "Avatar image"
// @Success     200 {object} models.AvatarResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /profile/avatar [post]
func (h *ProfilesHandler) UploadAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no avatar file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read avatar file",
			Message: err.Error(),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read avatar file",
			Message: err.Error(),
		})
		return
	}

	avatarURL, err := h.profiles.UploadAvatar(userID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		respondError(c, "failed to upload avatar", err)
		return
	}

	c.JSON(http.StatusOK, models.AvatarResponse{AvatarURL: avatarURL})
}

// Delete godoc
// @Summary     Delete the account's data
// @Description Removes the profile row, sketch rows, and stored objects. The auth identity itself is deleted platform-side.
// @Tags        profile
// @Produce     json
// @Security    Bearer
// @Success     204
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /profile [delete]
func (h *ProfilesHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.profiles.DeleteAccount(userID); err != nil {
		respondError(c, "failed to delete account", err)
		return
	}

	c.Status(http.StatusNoContent)
}
