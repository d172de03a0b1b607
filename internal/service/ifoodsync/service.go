package ifoodsync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/logimax/analytics/internal/domain/models"
	"github.com/logimax/analytics/internal/repository/mongodb"
	"github.com/logimax/analytics/pkg/clients/ifood"
)

const dateLayout = "2006-01-02"

// Service pulls merchant metrics from the iFood API and persists them as
// weekly metric rows.
type Service struct {
	client  ifood.Client
	metrics mongodb.MetricsRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a new sync service instance.
func NewService(client ifood.Client, metrics mongodb.MetricsRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:  client,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// SyncWeeklyMetrics fetches the sales, funnel and operational metric blocks
// for the merchant concurrently, joins them into one row and persists it.
// Any failed fetch fails the whole sync; a partially populated row would be
// indistinguishable from a week with no activity.
func (s *Service) SyncWeeklyMetrics(ctx context.Context, merchantID string, start, end time.Time) (models.WeeklyMetrics, error) {
	if merchantID == "" {
		return models.WeeklyMetrics{}, fmt.Errorf("merchant id is required")
	}

	var (
		sales       *ifood.SalesMetrics
		funnel      *ifood.FunnelMetrics
		operational *ifood.OperationalMetrics
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = s.client.SalesMetrics(gctx, merchantID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		funnel, err = s.client.FunnelMetrics(gctx, merchantID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		operational, err = s.client.OperationalMetrics(gctx, merchantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.WeeklyMetrics{}, fmt.Errorf("sync weekly metrics for %s: %w", merchantID, err)
	}

	row := models.WeeklyMetrics{
		MerchantID: merchantID,
		Mes:        int(start.Month()),
		Ano:        start.Year(),
		DataInicio: start.Format(dateLayout),
		DataFim:    end.Format(dateLayout),
		CreatedAt:  s.now().UTC(),

		VendasTotal:      sales.VendasTotal,
		ClientesNovos:    sales.ClientesNovos,
		FaturamentoTotal: sales.FaturamentoTotal,
		TicketMedio:      sales.TicketMedio,
		ConversaoPct:     sales.ConversaoPct,

		Visitas:       funnel.Visitas,
		Visualizacoes: funnel.Visualizacoes,
		Sacola:        funnel.Sacola,
		Revisao:       funnel.Revisao,
		Concluidos:    funnel.Concluidos,

		TempoAbertoPct:       operational.TempoAbertoPct,
		PedidosCanceladosPct: operational.PedidosCanceladosPct,
		NotaLoja:             operational.NotaLoja,
	}

	if err := s.metrics.InsertWeekly(ctx, row); err != nil {
		return row, fmt.Errorf("sync weekly metrics for %s: %w", merchantID, err)
	}

	s.logger.Info("weekly metrics synced",
		zap.String("merchant_id", merchantID),
		zap.String("data_inicio", row.DataInicio),
		zap.String("data_fim", row.DataFim))
	return row, nil
}
