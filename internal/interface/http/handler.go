package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
)

const defaultNotificationLimit = 20

// Handler wires the HTTP transport to the dashboard orchestrator.
type Handler struct {
	orchestrator  dashboard.Orchestrator
	notifications dashboard.NotificationLog
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(orchestrator dashboard.Orchestrator, notifications dashboard.NotificationLog, logger *slog.Logger) *Handler {
	return &Handler{
		orchestrator:  orchestrator,
		notifications: notifications,
		logger:        logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetProfile returns the stored profile.
func (h *Handler) GetProfile(c *gin.Context) {
	profile, ok, err := h.orchestrator.LoadProfile(c.Request.Context())
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "profile_not_found", "no profile has been saved yet", nil))
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SubmitProfile saves the profile and refreshes weather and advice for it.
func (h *Handler) SubmitProfile(c *gin.Context) {
	var req dashboard.UserProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	// A disconnecting client must not abandon a submission halfway.
	ctx := context.WithoutCancel(c.Request.Context())
	state, err := h.orchestrator.Submit(ctx, req)
	if err != nil {
		abortWithError(c, submissionError(err))
		return
	}

	c.JSON(http.StatusOK, state)
}

// Dashboard returns the current dashboard state.
func (h *Handler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.orchestrator.Snapshot())
}

// DashboardStream pushes every dashboard transition using Server-Sent Events.
func (h *Handler) DashboardStream(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "stream_unsupported", "streaming not supported", nil))
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	for state := range h.orchestrator.Subscribe(c.Request.Context()) {
		payload, err := json.Marshal(state)
		if err != nil {
			h.logger.Error("marshal dashboard failed", "error", err)
			continue
		}
		c.Writer.Write([]byte("data: "))
		c.Writer.Write(payload)
		c.Writer.Write([]byte("\n\n"))
		flusher.Flush()
	}
}

// Notifications lists the most recent notifications, newest first.
func (h *Handler) Notifications(c *gin.Context) {
	limit := defaultNotificationLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a positive integer", err))
			return
		}
		limit = parsed
	}
	c.JSON(http.StatusOK, gin.H{"notifications": h.notifications.Recent(limit)})
}

// Vocabulary lists the selectable activities and health conditions.
func (h *Handler) Vocabulary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"activities":       dashboard.ActivityVocabulary,
		"healthConditions": dashboard.HealthVocabulary,
	})
}
