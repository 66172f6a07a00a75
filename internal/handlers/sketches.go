package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sketch2photo-backend/internal/models"
	"sketch2photo-backend/internal/services"
)

type SketchesHandler struct {
	sketches *services.SketchService
	watcher  *services.SketchWatcher
}

func NewSketchesHandler(sketches *services.SketchService, watcher *services.SketchWatcher) *SketchesHandler {
	return &SketchesHandler{
		sketches: sketches,
		watcher:  watcher,
	}
}

// Submit godoc
// @Summary     Upload a sketch and generate its image
// @Description Stores the sketch, runs generation, and returns the record in its final state. JPEG, PNG and GIF up to 5MB.
// @Tags        sketches
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       sketch formData file true "Sketch image"
// @Param       name formData string false "Display name (defaults to the file name)"
// @Success     201 {object} models.SketchResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /sketches [post]
func (h *SketchesHandler) Submit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("sketch")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no sketch file provided"})
		return
	}

	name := c.PostForm("name")
	if name == "" {
		base := filepath.Base(fileHeader.Filename)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read sketch file",
			Message: err.Error(),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read sketch file",
			Message: err.Error(),
		})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")

	sketch, err := h.sketches.Submit(userID, fileHeader.Filename, contentType, name, data)
	if err != nil {
		// The record, if one was created, has already been marked failed.
		respondError(c, "failed to process sketch", err)
		return
	}

	c.JSON(http.StatusCreated, models.NewSketchResponse(sketch))
}

// List godoc
// @Summary     List the caller's sketches, newest first
// @Tags        sketches
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.SketchListResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /sketches [get]
func (h *SketchesHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sketches, err := h.sketches.List(userID)
	if err != nil {
		respondError(c, "failed to list sketches", err)
		return
	}

	resp := models.SketchListResponse{Sketches: make([]models.SketchResponse, len(sketches))}
	for i := range sketches {
		resp.Sketches[i] = models.NewSketchResponse(&sketches[i])
	}

	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary     Fetch one sketch
// @Tags        sketches
// @Produce     json
// @Security    Bearer
// @Param       sketch_id path string true "Sketch ID (UUID)"
// @Success     200 {object} models.SketchResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /sketches/{sketch_id} [get]
func (h *SketchesHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sketchID, err := uuid.Parse(c.Param("sketch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid sketch id"})
		return
	}

	sketch, err := h.sketches.Get(sketchID, userID)
	if err != nil {
		respondError(c, "sketch not found", err)
		return
	}

	c.JSON(http.StatusOK, models.NewSketchResponse(sketch))
}

// Watch godoc
// @Summary     Stream status updates for a sketch
// @Description Server-sent events; one event per poll tick, closing once the status is terminal.
// @Tags        sketches
// @Produce     text/event-stream
// @Security    Bearer
// @Param       sketch_id path string true "Sketch ID (UUID)"
// @Success     200
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /sketches/{sketch_id}/watch [get]
func (h *SketchesHandler) Watch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sketchID, err := uuid.Parse(c.Param("sketch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid sketch id"})
		return
	}

	// Fail fast before committing to an event stream.
	if _, err := h.sketches.Get(sketchID, userID); err != nil {
		respondError(c, "sketch not found", err)
		return
	}

	updates := h.watcher.Watch(c.Request.Context(), sketchID, userID)

	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		sketch, open := <-updates
		if !open {
			return false
		}
		c.SSEvent("status", models.NewSketchResponse(sketch))
		return true
	})
}

// Delete godoc
// @Summary     Delete a sketch and its stored object
// @Description The stored object is removed first; if that fails the record is kept.
// @Tags        sketches
// @Produce     json
// @Security    Bearer
// @Param       sketch_id path string true "Sketch ID (UUID)"
// @Success     204
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /sketches/{sketch_id} [delete]
func (h *SketchesHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sketchID, err := uuid.Parse(c.Param("sketch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid sketch id"})
		return
	}

	if err := h.sketches.Remove(sketchID, userID); err != nil {
		respondError(c, "failed to delete sketch", err)
		return
	}

	c.Status(http.StatusNoContent)
}
