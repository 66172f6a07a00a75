package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sketch2photo-backend/internal/middleware"
	"sketch2photo-backend/internal/models"
)

// currentUserID pulls the authenticated user id out of the gin context.
// It writes the error response itself; callers just return on !ok.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.UUID{}, false
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.UUID{}, false
	}

	return userID, true
}

func currentEmail(c *gin.Context) string {
	email, _ := c.Get(middleware.EmailKey)
	s, _ := email.(string)
	return s
}

func currentToken(c *gin.Context) string {
	token, _ := c.Get(middleware.TokenKey)
	s, _ := token.(string)
	return s
}

// respondError maps the error kind to a status code and keeps the
// error detail in the response body.
func respondError(c *gin.Context, short string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, models.ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	c.JSON(status, models.ErrorResponse{
		Error:   short,
		Message: err.Error(),
	})
}
