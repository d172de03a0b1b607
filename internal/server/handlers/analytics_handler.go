package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/logimax/analytics/internal/config"
	"github.com/logimax/analytics/internal/domain/models"
	"github.com/logimax/analytics/internal/service/alerting"
	"github.com/logimax/analytics/internal/service/analytics"
	"github.com/logimax/analytics/internal/service/reporting"
)

// AnalyticsHandler exposes the KPI computation, alert scan and daily report
// operations over HTTP.
type AnalyticsHandler struct {
	analytics  *analytics.Service
	alerting   *alerting.Service
	reporting  *reporting.Service
	thresholds config.Thresholds
	logger     *zap.Logger
}

// NewAnalyticsHandler constructs the HTTP handler adapter.
func NewAnalyticsHandler(analyticsSvc *analytics.Service, alertingSvc *alerting.Service, reportingSvc *reporting.Service, thresholds config.Thresholds, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{
		analytics:  analyticsSvc,
		alerting:   alertingSvc,
		reporting:  reportingSvc,
		thresholds: thresholds,
		logger:     logger,
	}
}

// periodRequest is the shared request body of the windowed analytics
// endpoints.
type periodRequest struct {
	DataInicio time.Time `json:"data_inicio" binding:"required"`
	DataFim    time.Time `json:"data_fim" binding:"required"`
}

func (r periodRequest) window() models.Window {
	return models.NewWindow(r.DataInicio, r.DataFim)
}

func (r periodRequest) periodo() gin.H {
	return gin.H{"inicio": r.DataInicio, "fim": r.DataFim}
}

// Conversion computes the conversion rate for the requested window.
func (h *AnalyticsHandler) Conversion(c *gin.Context) {
	var req periodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid conversion payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_inicio and data_fim are required"})
		return
	}

	stats, err := h.analytics.ConversionWindow(c.Request.Context(), req.window())
	if err != nil {
		h.logger.Error("failed computing conversion", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load orders for period"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"periodo":           req.periodo(),
		"total_pedidos":     stats.Total,
		"aprovados":         stats.Approved,
		"cancelados":        stats.Canceled,
		"taxa_conversao":    formatPercent(stats.Rate),
		"taxa_cancelamento": formatPercent(stats.CancellationRate),
	})
}

// DeliveryTime computes the average delivery time for the requested window.
func (h *AnalyticsHandler) DeliveryTime(c *gin.Context) {
	var req periodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid delivery time payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_inicio and data_fim are required"})
		return
	}

	stats, err := h.analytics.DeliveryTimeWindow(c.Request.Context(), req.window())
	if err != nil {
		h.logger.Error("failed computing delivery time", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load orders for period"})
		return
	}

	if !stats.HasData() {
		c.JSON(http.StatusOK, gin.H{"erro": "Nenhum pedido entregue no período"})
		return
	}

	media := math.Round(stats.AvgMinutes*10) / 10
	c.JSON(http.StatusOK, gin.H{
		"periodo":           req.periodo(),
		"pedidos_entregues": stats.Delivered,
		"tempo_medio_min":   media,
		"meta_min":          h.thresholds.DeliveryTargetMin,
		"dentro_da_meta":    media <= h.thresholds.DeliveryTargetMin,
	})
}

// Ticket computes revenue and average ticket for the requested window.
func (h *AnalyticsHandler) Ticket(c *gin.Context) {
	var req periodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid ticket payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_inicio and data_fim are required"})
		return
	}

	stats, err := h.analytics.TicketWindow(c.Request.Context(), req.window())
	if err != nil {
		h.logger.Error("failed computing ticket", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load orders for period"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"periodo":           req.periodo(),
		"total_pedidos":     stats.Total,
		"faturamento_total": "R$ " + stats.Revenue.StringFixed(2),
		"ticket_medio":      "R$ " + stats.Avg.StringFixed(2),
	})
}

// ScanAlerts runs the alert classifier over today's orders and persists any
// raised alerts.
func (h *AnalyticsHandler) ScanAlerts(c *gin.Context) {
	window := models.DaySoFar(time.Now())

	alerts, err := h.alerting.Scan(c.Request.Context(), window)
	if err != nil {
		h.logger.Error("alert scan failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "alert scan failed"})
		return
	}

	if alerts == nil {
		alerts = []models.Alert{}
	}
	c.JSON(http.StatusOK, gin.H{"alertas_gerados": alerts})
}

// GenerateDailyReport assembles and persists today's consolidated report.
func (h *AnalyticsHandler) GenerateDailyReport(c *gin.Context) {
	report, err := h.reporting.GenerateDailyReport(c.Request.Context(), time.Now())
	if err != nil {
		h.logger.Error("daily report generation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "daily report generation failed"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// RecentReports lists the newest persisted daily reports.
func (h *AnalyticsHandler) RecentReports(c *gin.Context) {
	limit := int64(7)
	if raw := c.Query("limite"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limite must be a positive integer"})
			return
		}
		limit = parsed
	}

	reports, err := h.reporting.RecentReports(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed listing reports", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to list reports"})
		return
	}

	if reports == nil {
		reports = []models.DailyReport{}
	}
	c.JSON(http.StatusOK, gin.H{"relatorios": reports})
}

// formatPercent renders a percentage rounded to two decimals with trailing
// zeros trimmed, e.g. 80 -> "80%", 79.988 -> "79.99%".
func formatPercent(v float64) string {
	rounded := math.Round(v*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + "%"
}
