package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/logimax/analytics/internal/service/advisor"
	"github.com/logimax/analytics/internal/service/ifoodsync"
)

// OpsHandler exposes operational context, the AI advisor and the iFood
// metrics sync.
type OpsHandler struct {
	advisor         *advisor.Service
	sync            *ifoodsync.Service
	defaultMerchant string
	logger          *zap.Logger
}

// NewOpsHandler constructs the HTTP handler adapter.
func NewOpsHandler(advisorSvc *advisor.Service, syncSvc *ifoodsync.Service, defaultMerchant string, logger *zap.Logger) *OpsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpsHandler{
		advisor:         advisorSvc,
		sync:            syncSvc,
		defaultMerchant: defaultMerchant,
		logger:          logger,
	}
}

// Context returns the joined operational context.
func (h *OpsHandler) Context(c *gin.Context) {
	contexto, err := h.advisor.BuildContext(c.Request.Context())
	if err != nil {
		h.logger.Error("failed building operational context", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to build operational context"})
		return
	}

	c.JSON(http.StatusOK, contexto)
}

type askRequest struct {
	Pergunta string `json:"pergunta" binding:"required"`
}

// Ask forwards an advisory question to the AI assistant.
func (h *OpsHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid ask payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "pergunta is required"})
		return
	}

	resposta, err := h.advisor.Ask(c.Request.Context(), req.Pergunta)
	if err != nil {
		if errors.Is(err, advisor.ErrAssistantDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ai assistant is not configured"})
			return
		}
		h.logger.Error("advisor request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "advisor request failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"resposta": resposta})
}

type syncRequest struct {
	MerchantID string    `json:"merchant_id"`
	DataInicio time.Time `json:"data_inicio" binding:"required"`
	DataFim    time.Time `json:"data_fim" binding:"required"`
}

// SyncWeeklyMetrics pulls merchant metrics from the iFood API and persists
// them.
func (h *OpsHandler) SyncWeeklyMetrics(c *gin.Context) {
	if h.sync == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ifood sync is not configured"})
		return
	}

	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sync payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_inicio and data_fim are required"})
		return
	}

	merchant := req.MerchantID
	if merchant == "" {
		merchant = h.defaultMerchant
	}
	if merchant == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "merchant_id is required"})
		return
	}

	row, err := h.sync.SyncWeeklyMetrics(c.Request.Context(), merchant, req.DataInicio, req.DataFim)
	if err != nil {
		h.logger.Error("weekly metrics sync failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "weekly metrics sync failed"})
		return
	}

	c.JSON(http.StatusOK, row)
}
