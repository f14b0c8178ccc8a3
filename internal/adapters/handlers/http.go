package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/domain"
	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/ports"
)

type HTTPHandler struct {
	service ports.RelayService
	log     *zap.Logger
}

func NewHTTPHandler(s ports.RelayService, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: s, log: log}
}

// Register mounts all routes on the router.
func (h *HTTPHandler) Register(r *gin.Engine) {
	r.GET("/", h.HandleRoot)
	api := r.Group("/api")
	api.GET("/health", h.HandleHealth)
	api.POST("/media-info", h.HandleMediaInfo)
	api.POST("/download", h.HandleDownload)
}

func (h *HTTPHandler) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "video downloader backend is running",
		"endpoints": []string{
			"GET /api/health",
			"POST /api/media-info",
			"POST /api/download",
		},
	})
}

func (h *HTTPHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.CheckHealth(c.Request.Context()))
}

func (h *HTTPHandler) HandleMediaInfo(c *gin.Context) {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	info, err := h.service.ResolveInfo(c.Request.Context(), req.URL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("media info failed", zap.String("url", req.URL), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to fetch media info",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": info})
}

func (h *HTTPHandler) HandleDownload(c *gin.Context) {
	var req domain.DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// Field checks happen before any outbound work, each with its own message.
	if req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	if req.UseCobalt && req.DownloadURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "downloadUrl is required when useCobalt is set"})
		return
	}
	if !req.UseCobalt && req.FormatID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formatId is required"})
		return
	}

	result, err := h.service.Download(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("download failed", zap.String("url", req.URL), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer result.Stream.Close()

	c.Header("Content-Type", "video/mp4")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	if result.Size > 0 {
		c.Header("Content-Length", strconv.FormatInt(result.Size, 10))
	}
	c.Status(http.StatusOK)

	// Once bytes are flowing no error can be surfaced; a broken pipe just
	// ends the response.
	if _, err := io.Copy(c.Writer, result.Stream); err != nil {
		h.log.Warn("stream interrupted", zap.String("url", req.URL), zap.Error(err))
	}
}
