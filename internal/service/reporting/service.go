package reporting

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/logimax/analytics/internal/domain/models"
	"github.com/logimax/analytics/internal/repository/mongodb"
	"github.com/logimax/analytics/internal/service/analytics"
)

const dateLayout = "2006-01-02"

// ReportExporter mirrors the persisted daily report to a secondary
// destination, the ops spreadsheet. Export failures never undo the primary
// write.
type ReportExporter interface {
	AppendDailyReport(ctx context.Context, report models.DailyReport) error
}

// Service assembles and persists the consolidated daily KPI report.
type Service struct {
	analytics *analytics.Service
	reports   mongodb.ReportRepository
	exporter  ReportExporter
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new reporting service instance. exporter may be nil
// when spreadsheet export is not configured.
func NewService(analyticsSvc *analytics.Service, reports mongodb.ReportRepository, exporter ReportExporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		analytics: analyticsSvc,
		reports:   reports,
		exporter:  exporter,
		logger:    logger,
		now:       time.Now,
	}
}

// GenerateDailyReport computes the KPI snapshot for the reference day and
// persists the consolidated report, replacing any earlier snapshot for the
// same date. When the reference day is still in progress the window closes
// at the current instant. An empty day still yields a well-formed report.
func (s *Service) GenerateDailyReport(ctx context.Context, day time.Time) (models.DailyReport, error) {
	now := s.now().UTC()
	window := models.DayWindow(day)
	if window.Contains(now) {
		window.End = now
	}

	snapshot, err := s.analytics.SnapshotWindow(ctx, window)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("generate daily report: %w", err)
	}

	report := buildReport(snapshot, window.Start, now)

	if err := s.reports.Upsert(ctx, report); err != nil {
		return report, fmt.Errorf("generate daily report: %w", err)
	}

	s.logger.Info("daily report persisted",
		zap.String("data_referencia", report.DataReferencia),
		zap.Int("total_pedidos", snapshot.TotalOrders),
		zap.String("taxa_conversao", report.Dados.TaxaConversao.TaxaConversao))

	if s.exporter != nil {
		if err := s.exporter.AppendDailyReport(ctx, report); err != nil {
			// The report is already durable; the spreadsheet can be fixed later.
			s.logger.Warn("daily report export failed", zap.Error(err))
		}
	}

	return report, nil
}

// RecentReports lists the newest persisted daily reports.
func (s *Service) RecentReports(ctx context.Context, limit int64) ([]models.DailyReport, error) {
	return s.reports.RecentReports(ctx, limit)
}

// buildReport shapes the snapshot into the persisted report document.
// Rounding happens here, always from the full-precision snapshot values.
func buildReport(snapshot models.KPISnapshot, referenceDay, generatedAt time.Time) models.DailyReport {
	avgDelivery := 0.0
	if snapshot.HasDeliveryTime() {
		avgDelivery = math.Round(snapshot.AvgDeliveryMin*10) / 10
	}

	data := models.ReportData{
		Data:     referenceDay.Format(dateLayout),
		GeradoEm: generatedAt,
		Sistema:  models.SourceSystem,
		TaxaConversao: models.ConversionSection{
			TotalPedidos:  snapshot.TotalOrders,
			Aprovados:     snapshot.Approved,
			Cancelados:    snapshot.Canceled,
			TaxaConversao: fmt.Sprintf("%.2f%%", snapshot.ConversionRate),
		},
		TempoMedioEntrega: models.DeliveryTimeSection{
			PedidosEntregues: snapshot.Delivered,
			TempoMedioMin:    avgDelivery,
		},
		TicketMedio: models.TicketSection{
			FaturamentoTotal: "R$ " + snapshot.TotalRevenue.StringFixed(2),
			TicketMedio:      "R$ " + snapshot.AvgTicket.StringFixed(2),
		},
	}

	return models.DailyReport{
		DataReferencia: data.Data,
		Dados:          data,
		Tipo:           models.ReportTypeDaily,
		GeradoPor:      models.SourceSystem,
		CreatedAt:      generatedAt,
	}
}
