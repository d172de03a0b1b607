package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/logimax/analytics/internal/domain/models"
)

type stubRepo struct {
	orders  []models.Order
	alerts  []models.Alert
	reports []models.DailyReport
	weekly  []models.WeeklyMetrics

	ordersErr error
	alertsErr error
}

func (s *stubRepo) FindInWindow(context.Context, models.Window, ...models.OrderStatus) ([]models.Order, error) {
	return s.orders, s.ordersErr
}

func (s *stubRepo) Recent(context.Context, int64) ([]models.Order, error) {
	return s.orders, s.ordersErr
}

func (s *stubRepo) Insert(context.Context, models.Alert) error { return nil }

func (s *stubRepo) Active(context.Context) ([]models.Alert, error) {
	return s.alerts, s.alertsErr
}

func (s *stubRepo) Upsert(context.Context, models.DailyReport) error { return nil }

func (s *stubRepo) RecentReports(context.Context, int64) ([]models.DailyReport, error) {
	return s.reports, nil
}

func (s *stubRepo) InsertWeekly(context.Context, models.WeeklyMetrics) error { return nil }

func (s *stubRepo) RecentWeekly(context.Context, int64) ([]models.WeeklyMetrics, error) {
	return s.weekly, nil
}

type stubAI struct {
	lastSystem string
	lastUser   string
	answer     string
	err        error
}

func (s *stubAI) ChatCompletion(_ context.Context, system, user string) (string, error) {
	s.lastSystem = system
	s.lastUser = user
	return s.answer, s.err
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		orders: []models.Order{{ID: "p1", Status: models.StatusEntregue, CreatedAt: time.Now()}},
		alerts: []models.Alert{{Tipo: models.AlertLowConversion, Nivel: models.SeverityHigh, Status: models.AlertStatusActive}},
		reports: []models.DailyReport{{
			DataReferencia: "2025-03-10",
			Tipo:           models.ReportTypeDaily,
		}},
		weekly: []models.WeeklyMetrics{{MerchantID: "m1", Mes: 3, Ano: 2025}},
	}
}

func TestBuildContextJoinsAllSlices(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, repo, repo, repo, nil, zaptest.NewLogger(t))

	ctx, err := svc.BuildContext(context.Background())
	require.NoError(t, err)

	assert.Len(t, ctx.PedidosRecentes, 1)
	assert.Len(t, ctx.AlertasAtivos, 1)
	assert.Len(t, ctx.RelatoriosRecentes, 1)
	assert.Len(t, ctx.MetricasSemanais, 1)
}

func TestBuildContextFailsWhenAnyFetchFails(t *testing.T) {
	repo := newStubRepo()
	repo.alertsErr = errors.New("alerts unavailable")
	svc := NewService(repo, repo, repo, repo, nil, zaptest.NewLogger(t))

	_, err := svc.BuildContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alerts unavailable")
}

func TestAskRequiresConfiguredAssistant(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, repo, repo, repo, nil, zaptest.NewLogger(t))

	_, err := svc.Ask(context.Background(), "como está a conversão?")
	assert.ErrorIs(t, err, ErrAssistantDisabled)
}

func TestAskGroundsQuestionOnContext(t *testing.T) {
	repo := newStubRepo()
	ai := &stubAI{answer: "Conversão dentro da meta."}
	svc := NewService(repo, repo, repo, repo, ai, zaptest.NewLogger(t))

	answer, err := svc.Ask(context.Background(), "como está a conversão?")
	require.NoError(t, err)

	assert.Equal(t, "Conversão dentro da meta.", answer)
	assert.Contains(t, ai.lastUser, "como está a conversão?")
	assert.Contains(t, ai.lastUser, "pedidos_recentes")
	assert.True(t, strings.Contains(ai.lastSystem, "LOGIMAX"))
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, repo, repo, repo, &stubAI{}, zaptest.NewLogger(t))

	_, err := svc.Ask(context.Background(), "")
	require.Error(t, err)
}
