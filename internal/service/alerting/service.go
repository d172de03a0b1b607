package alerting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/logimax/analytics/internal/config"
	"github.com/logimax/analytics/internal/domain/models"
	"github.com/logimax/analytics/internal/repository/mongodb"
	"github.com/logimax/analytics/internal/service/analytics"
)

// Service runs snapshot-classify-persist scans over the order stream.
type Service struct {
	analytics  *analytics.Service
	alerts     mongodb.AlertRepository
	thresholds config.Thresholds
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a new alerting service. Thresholds are fixed at
// construction time.
func NewService(analyticsSvc *analytics.Service, alerts mongodb.AlertRepository, thresholds config.Thresholds, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		analytics:  analyticsSvc,
		alerts:     alerts,
		thresholds: thresholds,
		logger:     logger,
		now:        time.Now,
	}
}

// Scan computes the KPI snapshot for the window, classifies it and persists
// every raised alert. The classified alerts are returned even when a persist
// fails, so the caller can retry the write without recomputing.
func (s *Service) Scan(ctx context.Context, window models.Window) ([]models.Alert, error) {
	snapshot, err := s.analytics.SnapshotWindow(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("alert scan: %w", err)
	}

	alerts := Classify(snapshot, s.thresholds, s.now().UTC())
	for _, alert := range alerts {
		if err := s.alerts.Insert(ctx, alert); err != nil {
			return alerts, fmt.Errorf("alert scan persist %s: %w", alert.Tipo, err)
		}
		s.logger.Warn("kpi alert raised",
			zap.String("tipo", string(alert.Tipo)),
			zap.String("nivel", string(alert.Nivel)),
			zap.String("valor_atual", alert.ValorAtual),
			zap.String("desvio", alert.Desvio))
	}

	if len(alerts) == 0 {
		s.logger.Info("kpi scan clean",
			zap.Time("inicio", window.Start),
			zap.Time("fim", window.End))
	}
	return alerts, nil
}

// Active lists the alerts still marked ativo.
func (s *Service) Active(ctx context.Context) ([]models.Alert, error) {
	return s.alerts.Active(ctx)
}
