package alerting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/logimax/analytics/internal/config"
	"github.com/logimax/analytics/internal/domain/models"
	"github.com/logimax/analytics/internal/service/analytics"
)

type stubOrderRepo struct {
	orders []models.Order
}

func (s *stubOrderRepo) FindInWindow(context.Context, models.Window, ...models.OrderStatus) ([]models.Order, error) {
	return s.orders, nil
}

func (s *stubOrderRepo) Recent(context.Context, int64) ([]models.Order, error) {
	return s.orders, nil
}

type stubAlertRepo struct {
	inserted []models.Alert
	err      error
}

func (s *stubAlertRepo) Insert(_ context.Context, alert models.Alert) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, alert)
	return nil
}

func (s *stubAlertRepo) Active(context.Context) ([]models.Alert, error) {
	return s.inserted, nil
}

func lowConversionOrders() []models.Order {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	orders := make([]models.Order, 0, 10)
	for i := 0; i < 4; i++ {
		orders = append(orders, models.Order{Status: models.StatusEntregue, CreatedAt: now, TempoPreparoMin: 10, TempoEntregaMin: 15})
	}
	for i := 0; i < 6; i++ {
		orders = append(orders, models.Order{Status: models.StatusCancelado, CreatedAt: now})
	}
	return orders
}

func TestScanPersistsRaisedAlerts(t *testing.T) {
	orderRepo := &stubOrderRepo{orders: lowConversionOrders()}
	alertRepo := &stubAlertRepo{}
	svc := NewService(
		analytics.NewService(orderRepo, zaptest.NewLogger(t)),
		alertRepo,
		config.DefaultThresholds(),
		zaptest.NewLogger(t),
	)

	alerts, err := svc.Scan(context.Background(), models.DayWindow(time.Now()))
	require.NoError(t, err)

	// 40% conversion is critical; delivery average of 25 min is fine.
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertLowConversion, alerts[0].Tipo)
	assert.Equal(t, models.SeverityCritical, alerts[0].Nivel)
	assert.Equal(t, alerts, alertRepo.inserted)
}

func TestScanHealthyWindowRaisesNothing(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	orderRepo := &stubOrderRepo{orders: []models.Order{
		{Status: models.StatusEntregue, CreatedAt: now, TempoPreparoMin: 10, TempoEntregaMin: 20},
	}}
	alertRepo := &stubAlertRepo{}
	svc := NewService(
		analytics.NewService(orderRepo, zaptest.NewLogger(t)),
		alertRepo,
		config.DefaultThresholds(),
		zaptest.NewLogger(t),
	)

	alerts, err := svc.Scan(context.Background(), models.DayWindow(now))
	require.NoError(t, err)
	assert.Empty(t, alerts)
	assert.Empty(t, alertRepo.inserted)
}

func TestScanReturnsAlertsOnPersistFailure(t *testing.T) {
	orderRepo := &stubOrderRepo{orders: lowConversionOrders()}
	alertRepo := &stubAlertRepo{err: errors.New("write timeout")}
	svc := NewService(
		analytics.NewService(orderRepo, zaptest.NewLogger(t)),
		alertRepo,
		config.DefaultThresholds(),
		zaptest.NewLogger(t),
	)

	alerts, err := svc.Scan(context.Background(), models.DayWindow(time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write timeout")

	// The computed alerts survive the failed write so the caller can retry.
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertLowConversion, alerts[0].Tipo)
}
