package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"growthmind/internal/domain"
	"growthmind/internal/service"
)

// FunnelHandler expone la maquina de estados del embudo como vistas JSON.
type FunnelHandler struct {
	logger *zap.Logger
	funnel *service.FunnelService
}

// NewFunnelHandler crea una instancia de FunnelHandler con dependencias necesarias.
func NewFunnelHandler(logger *zap.Logger, funnel *service.FunnelService) *FunnelHandler {
	return &FunnelHandler{
		logger: logger,
		funnel: funnel,
	}
}

// Options maneja GET /options.
func (h *FunnelHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"industries":         domain.Industries,
		"company_sizes":      domain.CompanySizes,
		"revenue_ranges":     domain.RevenueRanges,
		"challenges":         domain.Challenges,
		"marketing_channels": domain.MarketingChannels,
	})
}

// CreateSession maneja POST /sessions.
func (h *FunnelHandler) CreateSession(c *gin.Context) {
	sess, err := h.funnel.CreateSession(c.Request.Context())
	if err != nil {
		h.writeError(c, "create session failed", err)
		return
	}
	h.respondView(c, http.StatusCreated, sess.ID)
}

// GetSession maneja GET /sessions/:id.
func (h *FunnelHandler) GetSession(c *gin.Context) {
	h.respondView(c, http.StatusOK, c.Param("id"))
}

// Start maneja POST /sessions/:id/start.
func (h *FunnelHandler) Start(c *gin.Context) {
	if _, err := h.funnel.Start(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, "start failed", err)
		return
	}
	h.respondView(c, http.StatusOK, c.Param("id"))
}

// UpdateProfile maneja PATCH /sessions/:id/profile.
func (h *FunnelHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Industry         *string `json:"industry"`
		Role             *string `json:"role"`
		CompanySize      *string `json:"company_size"`
		RevenueRange     *string `json:"revenue_range"`
		PrimaryChallenge *string `json:"primary_challenge"`
		ToggleChannel    *string `json:"toggle_channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var updates []service.ProfileUpdate
	add := func(field string, v *string) {
		if v != nil {
			updates = append(updates, service.ProfileUpdate{Field: field, Value: *v})
		}
	}
	add(domain.FieldIndustry, req.Industry)
	add(domain.FieldRole, req.Role)
	add(domain.FieldCompanySize, req.CompanySize)
	add(domain.FieldRevenueRange, req.RevenueRange)
	add(domain.FieldPrimaryChallenge, req.PrimaryChallenge)
	add(domain.FieldMarketingChannel, req.ToggleChannel)

	if _, err := h.funnel.UpdateProfile(c.Request.Context(), c.Param("id"), updates); err != nil {
		h.writeError(c, "update profile failed", err)
		return
	}
	h.respondView(c, http.StatusOK, c.Param("id"))
}

// NextStep maneja POST /sessions/:id/steps/next. En el ultimo paso responde 202
// porque el analisis sigue en segundo plano.
func (h *FunnelHandler) NextStep(c *gin.Context) {
	sess, err := h.funnel.NextStep(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "next step failed", err)
		return
	}
	status := http.StatusOK
	if sess.State == domain.StateAnalyzing {
		status = http.StatusAccepted
	}
	h.respondView(c, status, sess.ID)
}

// PrevStep maneja POST /sessions/:id/steps/back.
func (h *FunnelHandler) PrevStep(c *gin.Context) {
	if _, err := h.funnel.PrevStep(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, "previous step failed", err)
		return
	}
	h.respondView(c, http.StatusOK, c.Param("id"))
}

// SubmitLead maneja POST /sessions/:id/lead.
func (h *FunnelHandler) SubmitLead(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		CompanyName string `json:"company_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid lead request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	contact := domain.ContactInfo{Name: req.Name, Email: req.Email, CompanyName: req.CompanyName}
	if _, err := h.funnel.SubmitLead(c.Request.Context(), c.Param("id"), contact); err != nil {
		h.writeError(c, "submit lead failed", err)
		return
	}
	h.respondView(c, http.StatusOK, c.Param("id"))
}

// Results maneja GET /sessions/:id/results.
func (h *FunnelHandler) Results(c *gin.Context) {
	report, err := h.funnel.Results(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "results failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (h *FunnelHandler) respondView(c *gin.Context, status int, id string) {
	view, err := h.funnel.View(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "render view failed", err)
		return
	}
	c.JSON(status, gin.H{"session": view})
}

func (h *FunnelHandler) writeError(c *gin.Context, msg string, err error) {
	var contactErr *domain.ContactValidationError
	var fieldErr *domain.FieldError

	switch {
	case errors.As(err, &contactErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid contact info", "fields": contactErr.Fields})
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldErr.Error()})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, domain.ErrStepInvalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrResultsLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
