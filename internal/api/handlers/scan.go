package handlers

import (
	"bytes"
	"encoding/base64"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pokeport/pokeport-ai/backend/internal/services"
)

// ScanHandler exposes the scan pipeline and condition grading over HTTP.
type ScanHandler struct {
	scanner  *services.ScanService
	assessor *services.ConditionAssessorService
}

func NewScanHandler(scanner *services.ScanService, assessor *services.ConditionAssessorService) *ScanHandler {
	return &ScanHandler{
		scanner:  scanner,
		assessor: assessor,
	}
}

// readImage accepts either a multipart "image" file or a JSON body with a
// base64 "image" field. Returns the raw bytes and the declared MIME type.
func readImage(c *gin.Context) ([]byte, string, bool) {
	file, err := c.FormFile("image")
	if err == nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to open uploaded file"})
			return nil, "", false
		}
		defer src.Close()

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(src); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to read uploaded file"})
			return nil, "", false
		}
		return buf.Bytes(), file.Header.Get("Content-Type"), true
	}

	var req struct {
		Image string `json:"image"` // base64 encoded
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No image provided"})
		return nil, "", false
	}

	imageBytes, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid base64 image data"})
		return nil, "", false
	}
	return imageBytes, "", true
}

// ScanCard runs the full recognition and pricing pipeline for one image.
func (h *ScanHandler) ScanCard(c *gin.Context) {
	imageBytes, mimeType, ok := readImage(c)
	if !ok {
		return
	}

	result, err := h.scanner.Scan(c.Request.Context(), imageBytes, mimeType)
	if err != nil {
		var recErr *services.RecognitionError
		switch {
		case errors.Is(err, services.ErrNoImage):
			c.JSON(http.StatusBadRequest, gin.H{"message": "No image provided"})
		case errors.As(err, &recErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": "Could not identify card, please retry with better lighting/focus",
				"error":   recErr.Reason,
			})
		default:
			log.Printf("Card scanning error: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{
				"message": "Failed to scan card",
				"error":   err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// AssessCondition grades the physical condition of a card image.
func (h *ScanHandler) AssessCondition(c *gin.Context) {
	if h.assessor == nil || !h.assessor.IsEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Condition assessment is not available"})
		return
	}

	imageBytes, _, ok := readImage(c)
	if !ok {
		return
	}

	assessment, err := h.assessor.AssessCondition(c.Request.Context(), imageBytes)
	if err != nil {
		log.Printf("Condition assessment error: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"message": "Failed to assess card condition",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, assessment)
}
