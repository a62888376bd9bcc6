package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/betavietvn/leadtrack/internal/domain"
	"github.com/betavietvn/leadtrack/internal/logger"
	"github.com/betavietvn/leadtrack/internal/service"
	"github.com/betavietvn/leadtrack/pkg/detector"
	"github.com/betavietvn/leadtrack/pkg/response"
)

type IngestService interface {
	StoreEvents(ctx context.Context, events []domain.TrackingEvent, bot domain.BotDetection, clientIP string) (int64, error)
	StoreContactBatch(ctx context.Context, clicks []domain.ContactClick, subs []domain.FormSubmissionRecord) (int64, int64, error)
	StoreFraudReport(ctx context.Context, report *domain.FraudReport) error
	StoreSnapshot(ctx context.Context, snap *domain.SessionSnapshot, clientIP string) error
	GetSessionStats(ctx context.Context, sessionID string) (*domain.SessionStats, error)
}

type IngestHandler struct {
	service IngestService
}

func NewIngestHandler(service IngestService) *IngestHandler {
	return &IngestHandler{service: service}
}

type eventBatchRequest struct {
	Events       []domain.TrackingEvent `json:"events" binding:"required"`
	BotDetection domain.BotDetection    `json:"botDetection"`
}

type contactBatchRequest struct {
	ContactClicks   []domain.ContactClick         `json:"contactClicks"`
	FormSubmissions []domain.FormSubmissionRecord `json:"formSubmissions"`
	Timestamp       time.Time                     `json:"timestamp"`
	URL             string                        `json:"url"`
	BotDetection    domain.BotDetection           `json:"botDetection"`
}

// IngestEvents handles POST /api/analytics.
func (h *IngestHandler) IngestEvents(c *gin.Context) {
	var req eventBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid event batch")
		return
	}

	inserted, err := h.service.StoreEvents(c.Request.Context(), req.Events, req.BotDetection, h.clientIP(c))
	if err != nil {
		if errors.Is(err, service.ErrEmptyBatch) {
			response.BadRequest(c, "Event batch is empty")
			return
		}
		response.InternalServerError(c, "Failed to store events")
		return
	}

	response.Accepted(c, "Events stored", gin.H{"inserted": inserted})
}

// IngestContact handles POST /api/contact-tracking.
func (h *IngestHandler) IngestContact(c *gin.Context) {
	var req contactBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid contact batch")
		return
	}

	clicks, subs, err := h.service.StoreContactBatch(c.Request.Context(), req.ContactClicks, req.FormSubmissions)
	if err != nil {
		if errors.Is(err, service.ErrEmptyBatch) {
			response.BadRequest(c, "Contact batch is empty")
			return
		}
		response.InternalServerError(c, "Failed to store contact data")
		return
	}

	response.Accepted(c, "Contact data stored", gin.H{
		"contact_clicks":   clicks,
		"form_submissions": subs,
	})
}

// IngestFraudReport handles POST /api/fraud-detection.
func (h *IngestHandler) IngestFraudReport(c *gin.Context) {
	var report domain.FraudReport
	if err := c.ShouldBindJSON(&report); err != nil {
		response.BadRequest(c, "Invalid fraud report")
		return
	}

	if report.FraudScore.SessionID == "" {
		response.BadRequest(c, "Fraud report is missing a session id")
		return
	}

	ctx := logger.WithSessionID(c.Request.Context(), report.FraudScore.SessionID)
	if err := h.service.StoreFraudReport(ctx, &report); err != nil {
		response.InternalServerError(c, "Failed to store fraud report")
		return
	}

	response.Accepted(c, "Fraud report stored", nil)
}

// IngestSnapshot handles POST /api/tracking.
func (h *IngestHandler) IngestSnapshot(c *gin.Context) {
	var snap domain.SessionSnapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		response.BadRequest(c, "Invalid session snapshot")
		return
	}

	if snap.Session.SessionID == "" {
		response.BadRequest(c, "Snapshot is missing a session id")
		return
	}

	ctx := logger.WithSessionID(c.Request.Context(), snap.Session.SessionID)
	if err := h.service.StoreSnapshot(ctx, &snap, h.clientIP(c)); err != nil {
		response.InternalServerError(c, "Failed to store snapshot")
		return
	}

	response.Accepted(c, "Snapshot stored", nil)
}

// GetSessionStats handles GET /api/sessions/:sessionID/stats.
func (h *IngestHandler) GetSessionStats(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if sessionID == "" {
		response.BadRequest(c, "Session id is required")
		return
	}

	ctx := logger.WithSessionID(c.Request.Context(), sessionID)
	stats, err := h.service.GetSessionStats(ctx, sessionID)
	if err != nil {
		response.NotFound(c, "Session not found")
		return
	}

	response.Success(c, http.StatusOK, "Session stats retrieved", stats)
}

func (h *IngestHandler) clientIP(c *gin.Context) string {
	return detector.GetClientIP(
		c.Request.RemoteAddr,
		c.GetHeader("X-Forwarded-For"),
		c.GetHeader("X-Real-IP"),
	)
}
