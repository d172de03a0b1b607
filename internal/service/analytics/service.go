package analytics

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/logimax/analytics/internal/domain/models"
	"github.com/logimax/analytics/internal/repository/mongodb"
)

// Service computes KPI metrics over the order source. All computation is
// pure; the only failure mode is the order fetch itself, which is surfaced
// untouched. No partial aggregation is attempted.
type Service struct {
	orders mongodb.OrderRepository
	logger *zap.Logger
}

// NewService wires a new analytics service instance.
func NewService(orders mongodb.OrderRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orders: orders, logger: logger}
}

// SnapshotWindow fetches every order of the window and derives the full KPI
// snapshot.
func (s *Service) SnapshotWindow(ctx context.Context, window models.Window) (models.KPISnapshot, error) {
	orders, err := s.orders.FindInWindow(ctx, window)
	if err != nil {
		return models.KPISnapshot{}, fmt.Errorf("snapshot window: %w", err)
	}

	snapshot := Snapshot(window, orders)
	s.logger.Debug("kpi snapshot computed",
		zap.Time("inicio", window.Start),
		zap.Time("fim", window.End),
		zap.Int("total_pedidos", snapshot.TotalOrders))
	return snapshot, nil
}

// ConversionWindow computes the conversion breakdown for the window.
func (s *Service) ConversionWindow(ctx context.Context, window models.Window) (ConversionStats, error) {
	orders, err := s.orders.FindInWindow(ctx, window)
	if err != nil {
		return ConversionStats{}, fmt.Errorf("conversion window: %w", err)
	}
	return Conversion(orders), nil
}

// DeliveryTimeWindow computes the delivery time average for the window. Only
// delivered orders are fetched, mirroring what the metric consumes.
func (s *Service) DeliveryTimeWindow(ctx context.Context, window models.Window) (DeliveryTimeStats, error) {
	orders, err := s.orders.FindInWindow(ctx, window, models.StatusEntregue)
	if err != nil {
		return DeliveryTimeStats{}, fmt.Errorf("delivery time window: %w", err)
	}
	return DeliveryTime(orders), nil
}

// TicketWindow computes revenue and average ticket for the window.
func (s *Service) TicketWindow(ctx context.Context, window models.Window) (TicketStats, error) {
	orders, err := s.orders.FindInWindow(ctx, window)
	if err != nil {
		return TicketStats{}, fmt.Errorf("ticket window: %w", err)
	}
	return Ticket(orders), nil
}
