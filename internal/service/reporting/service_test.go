package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/logimax/analytics/internal/domain/models"
	"github.com/logimax/analytics/internal/service/analytics"
)

type stubOrderRepo struct {
	orders []models.Order
	err    error
}

func (s *stubOrderRepo) FindInWindow(_ context.Context, window models.Window, _ ...models.OrderStatus) ([]models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Order
	for _, o := range s.orders {
		if window.Contains(o.CreatedAt) {
			out = append(out, o.Normalize())
		}
	}
	return out, nil
}

func (s *stubOrderRepo) Recent(context.Context, int64) ([]models.Order, error) {
	return s.orders, nil
}

type stubReportRepo struct {
	byDate map[string]models.DailyReport
	err    error
}

func newStubReportRepo() *stubReportRepo {
	return &stubReportRepo{byDate: make(map[string]models.DailyReport)}
}

func (s *stubReportRepo) Upsert(_ context.Context, report models.DailyReport) error {
	if s.err != nil {
		return s.err
	}
	s.byDate[report.DataReferencia] = report
	return nil
}

func (s *stubReportRepo) RecentReports(context.Context, int64) ([]models.DailyReport, error) {
	var out []models.DailyReport
	for _, r := range s.byDate {
		out = append(out, r)
	}
	return out, nil
}

type stubExporter struct {
	appended []models.DailyReport
	err      error
}

func (s *stubExporter) AppendDailyReport(_ context.Context, report models.DailyReport) error {
	if s.err != nil {
		return s.err
	}
	s.appended = append(s.appended, report)
	return nil
}

var (
	reportDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	nextDay   = time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
)

func newTestService(t *testing.T, orders *stubOrderRepo, reports *stubReportRepo, exporter ReportExporter) *Service {
	t.Helper()
	svc := NewService(analytics.NewService(orders, zaptest.NewLogger(t)), reports, exporter, zaptest.NewLogger(t))
	svc.now = func() time.Time { return nextDay }
	return svc
}

func dayOrders() []models.Order {
	at := reportDay.Add(12 * time.Hour)
	return []models.Order{
		{Status: models.StatusEntregue, CreatedAt: at, TempoPreparoMin: 10, TempoEntregaMin: 20, ValorTotal: 100},
		{Status: models.StatusEntregue, CreatedAt: at, TempoPreparoMin: 15, TempoEntregaMin: 26, ValorTotal: 0},
		{Status: models.StatusCancelado, CreatedAt: at, ValorTotal: 50},
	}
}

func TestGenerateDailyReport(t *testing.T) {
	reports := newStubReportRepo()
	svc := newTestService(t, &stubOrderRepo{orders: dayOrders()}, reports, nil)

	report, err := svc.GenerateDailyReport(context.Background(), reportDay)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", report.DataReferencia)
	assert.Equal(t, models.ReportTypeDaily, report.Tipo)
	assert.Equal(t, models.SourceSystem, report.GeradoPor)
	assert.Equal(t, nextDay, report.Dados.GeradoEm)

	assert.Equal(t, 3, report.Dados.TaxaConversao.TotalPedidos)
	assert.Equal(t, 2, report.Dados.TaxaConversao.Aprovados)
	assert.Equal(t, 1, report.Dados.TaxaConversao.Cancelados)
	assert.Equal(t, "66.67%", report.Dados.TaxaConversao.TaxaConversao)

	assert.Equal(t, 2, report.Dados.TempoMedioEntrega.PedidosEntregues)
	assert.InDelta(t, 35.5, report.Dados.TempoMedioEntrega.TempoMedioMin, 1e-9)

	assert.Equal(t, "R$ 150.00", report.Dados.TicketMedio.FaturamentoTotal)
	assert.Equal(t, "R$ 50.00", report.Dados.TicketMedio.TicketMedio)

	stored, ok := reports.byDate["2025-03-10"]
	require.True(t, ok)
	assert.Equal(t, report, stored)
}

func TestGenerateDailyReportEmptyDay(t *testing.T) {
	reports := newStubReportRepo()
	svc := newTestService(t, &stubOrderRepo{}, reports, nil)

	report, err := svc.GenerateDailyReport(context.Background(), reportDay)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Dados.TaxaConversao.TotalPedidos)
	assert.Equal(t, "0.00%", report.Dados.TaxaConversao.TaxaConversao)
	assert.Zero(t, report.Dados.TempoMedioEntrega.PedidosEntregues)
	assert.Zero(t, report.Dados.TempoMedioEntrega.TempoMedioMin)
	assert.Equal(t, "R$ 0.00", report.Dados.TicketMedio.FaturamentoTotal)
	assert.Equal(t, "R$ 0.00", report.Dados.TicketMedio.TicketMedio)
	assert.Contains(t, reports.byDate, "2025-03-10")
}

func TestGenerateDailyReportReplacesSameDate(t *testing.T) {
	reports := newStubReportRepo()
	orders := &stubOrderRepo{}
	svc := newTestService(t, orders, reports, nil)

	_, err := svc.GenerateDailyReport(context.Background(), reportDay)
	require.NoError(t, err)

	orders.orders = dayOrders()
	second, err := svc.GenerateDailyReport(context.Background(), reportDay)
	require.NoError(t, err)

	require.Len(t, reports.byDate, 1)
	assert.Equal(t, second, reports.byDate["2025-03-10"])
	assert.Equal(t, 3, reports.byDate["2025-03-10"].Dados.TaxaConversao.TotalPedidos)
}

func TestGenerateDailyReportRetrievalError(t *testing.T) {
	reports := newStubReportRepo()
	svc := newTestService(t, &stubOrderRepo{err: errors.New("orders unavailable")}, reports, nil)

	_, err := svc.GenerateDailyReport(context.Background(), reportDay)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orders unavailable")
	assert.Empty(t, reports.byDate)
}

func TestGenerateDailyReportPersistError(t *testing.T) {
	reports := newStubReportRepo()
	reports.err = errors.New("upsert failed")
	svc := newTestService(t, &stubOrderRepo{orders: dayOrders()}, reports, nil)

	report, err := svc.GenerateDailyReport(context.Background(), reportDay)
	require.Error(t, err)

	// The computed report comes back so the caller may retry the write.
	assert.Equal(t, "2025-03-10", report.DataReferencia)
}

func TestGenerateDailyReportExportFailureTolerated(t *testing.T) {
	reports := newStubReportRepo()
	exporter := &stubExporter{err: errors.New("sheet unavailable")}
	svc := newTestService(t, &stubOrderRepo{orders: dayOrders()}, reports, exporter)

	_, err := svc.GenerateDailyReport(context.Background(), reportDay)
	require.NoError(t, err)
	assert.Contains(t, reports.byDate, "2025-03-10")
}

func TestGenerateDailyReportExportsRow(t *testing.T) {
	reports := newStubReportRepo()
	exporter := &stubExporter{}
	svc := newTestService(t, &stubOrderRepo{orders: dayOrders()}, reports, exporter)

	report, err := svc.GenerateDailyReport(context.Background(), reportDay)
	require.NoError(t, err)

	require.Len(t, exporter.appended, 1)
	assert.Equal(t, report, exporter.appended[0])
}
