package launcher

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"sketch2photo-backend/internal/config"
	"sketch2photo-backend/internal/logger"
)

// Handler runs the GAN model as a subprocess, one spawn per request,
// synchronously. There is no queue or concurrency cap.
type Handler struct {
	cfg *config.LauncherConfig
	log *logger.Logger
}

func NewHandler(cfg *config.LauncherConfig, log *logger.Logger) (*Handler, error) {
	for _, dir := range []string{cfg.UploadDir, cfg.ResultsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return &Handler{cfg: cfg, log: log}, nil
}

// Register mounts the processing route and the static results route.
func (h *Handler) Register(router *gin.Engine) {
	router.POST("/api/process-sketch", h.ProcessSketch)
	router.Static("/results", h.cfg.ResultsDir)
}

// ProcessSketch godoc
// @Summary     Run the GAN model on an uploaded sketch
// @Description Accepts a single sketch file, invokes the model subprocess, and returns a fetchable result URL.
// @Tags        process
// @Accept      multipart/form-data
// @Produce     json
// @Param       sketch formData file true "Sketch image"
// @Success     200 {object} map[string]interface{}
// @Failure     400 {object} map[string]interface{}
// @Failure     500 {object} map[string]interface{}
// @Router      /api/process-sketch [post]
func (h *Handler) ProcessSketch(c *gin.Context) {
	fileHeader, err := c.FormFile("sketch")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	inputFile := filepath.Join(h.cfg.UploadDir,
		fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(fileHeader.Filename)))
	if err := c.SaveUploadedFile(fileHeader, inputFile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Server error",
			"details": err.Error(),
		})
		return
	}

	base := strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))
	outputFile := filepath.Join(h.cfg.ResultsDir, base+".png")

	cmd := exec.CommandContext(c.Request.Context(), h.cfg.PythonBin, h.cfg.GANScript, inputFile, outputFile)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	h.log.Info("running gan model", "input", inputFile, "output", outputFile)

	if err := cmd.Start(); err != nil {
		h.log.Error("failed to start gan model", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to run GAN model",
			"details": err.Error(),
		})
		return
	}

	if err := cmd.Wait(); err != nil {
		h.log.Error("gan model exited with error", "error", err, "stderr", stderr.String())
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to process the sketch",
			"details": stderr.String(),
		})
		return
	}

	// A zero exit code alone is not success: the model must actually
	// have produced the output file.
	if _, err := os.Stat(outputFile); err != nil {
		h.log.Error("gan model produced no output file", "output", outputFile)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Generated image file not found",
			"details": "The GAN model did not produce an output file",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"resultUrl": "/results/" + filepath.Base(outputFile),
		"message":   "Sketch processed successfully",
	})
}
