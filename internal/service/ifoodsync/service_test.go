package ifoodsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/logimax/analytics/internal/domain/models"
	"github.com/logimax/analytics/pkg/clients/ifood"
)

type fakeIFoodClient struct {
	sales       *ifood.SalesMetrics
	funnel      *ifood.FunnelMetrics
	operational *ifood.OperationalMetrics

	salesErr       error
	funnelErr      error
	operationalErr error
}

func (f *fakeIFoodClient) SalesMetrics(ctx context.Context, merchantID string, start, end time.Time) (*ifood.SalesMetrics, error) {
	return f.sales, f.salesErr
}

func (f *fakeIFoodClient) FunnelMetrics(ctx context.Context, merchantID string, start, end time.Time) (*ifood.FunnelMetrics, error) {
	return f.funnel, f.funnelErr
}

func (f *fakeIFoodClient) OperationalMetrics(ctx context.Context, merchantID string) (*ifood.OperationalMetrics, error) {
	return f.operational, f.operationalErr
}

type fakeMetricsRepo struct {
	inserted  []models.WeeklyMetrics
	insertErr error
}

func (f *fakeMetricsRepo) InsertWeekly(ctx context.Context, row models.WeeklyMetrics) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, row)
	return nil
}

func (f *fakeMetricsRepo) RecentWeekly(ctx context.Context, limit int64) ([]models.WeeklyMetrics, error) {
	return f.inserted, nil
}

func healthyClient() *fakeIFoodClient {
	return &fakeIFoodClient{
		sales: &ifood.SalesMetrics{
			VendasTotal:      320,
			ClientesNovos:    41,
			FaturamentoTotal: 18456.90,
			TicketMedio:      57.68,
			ConversaoPct:     22.4,
		},
		funnel: &ifood.FunnelMetrics{
			Visitas:       5100,
			Visualizacoes: 2300,
			Sacola:        780,
			Revisao:       410,
			Concluidos:    320,
		},
		operational: &ifood.OperationalMetrics{
			TempoAbertoPct:       97.2,
			PedidosCanceladosPct: 1.8,
			NotaLoja:             4.6,
		},
	}
}

func TestSyncWeeklyMetricsJoinsAllBlocks(t *testing.T) {
	repo := &fakeMetricsRepo{}
	svc := NewService(healthyClient(), repo, zaptest.NewLogger(t))
	svc.now = func() time.Time { return time.Date(2025, 3, 17, 9, 0, 0, 0, time.UTC) }

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)

	row, err := svc.SyncWeeklyMetrics(context.Background(), "merchant-1", start, end)
	require.NoError(t, err)

	assert.Equal(t, "merchant-1", row.MerchantID)
	assert.Equal(t, 3, row.Mes)
	assert.Equal(t, 2025, row.Ano)
	assert.Equal(t, "2025-03-10", row.DataInicio)
	assert.Equal(t, "2025-03-16", row.DataFim)
	assert.Equal(t, time.Date(2025, 3, 17, 9, 0, 0, 0, time.UTC), row.CreatedAt)

	assert.Equal(t, 320, row.VendasTotal)
	assert.Equal(t, 41, row.ClientesNovos)
	assert.Equal(t, 18456.90, row.FaturamentoTotal)
	assert.Equal(t, 57.68, row.TicketMedio)
	assert.Equal(t, 22.4, row.ConversaoPct)

	assert.Equal(t, 5100, row.Visitas)
	assert.Equal(t, 320, row.Concluidos)
	assert.Equal(t, 97.2, row.TempoAbertoPct)
	assert.Equal(t, 4.6, row.NotaLoja)

	require.Len(t, repo.inserted, 1)
	assert.Equal(t, row, repo.inserted[0])
}

func TestSyncWeeklyMetricsAnyFetchFailureFailsAll(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*fakeIFoodClient)
	}{
		{"sales fetch fails", func(c *fakeIFoodClient) { c.salesErr = errors.New("sales unavailable") }},
		{"funnel fetch fails", func(c *fakeIFoodClient) { c.funnelErr = errors.New("funnel unavailable") }},
		{"operation fetch fails", func(c *fakeIFoodClient) { c.operationalErr = errors.New("operation unavailable") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := healthyClient()
			tc.mutate(client)
			repo := &fakeMetricsRepo{}
			svc := NewService(client, repo, zaptest.NewLogger(t))

			_, err := svc.SyncWeeklyMetrics(context.Background(), "merchant-1", time.Now().AddDate(0, 0, -7), time.Now())
			require.Error(t, err)
			assert.Empty(t, repo.inserted, "no partial row may be persisted")
		})
	}
}

func TestSyncWeeklyMetricsRequiresMerchantID(t *testing.T) {
	repo := &fakeMetricsRepo{}
	svc := NewService(healthyClient(), repo, zaptest.NewLogger(t))

	_, err := svc.SyncWeeklyMetrics(context.Background(), "", time.Now().AddDate(0, 0, -7), time.Now())
	require.Error(t, err)
	assert.Empty(t, repo.inserted)
}

func TestSyncWeeklyMetricsPersistErrorSurfaces(t *testing.T) {
	repo := &fakeMetricsRepo{insertErr: errors.New("write concern failed")}
	svc := NewService(healthyClient(), repo, zaptest.NewLogger(t))

	row, err := svc.SyncWeeklyMetrics(context.Background(), "merchant-1",
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.ErrorContains(t, err, "write concern failed")
	assert.Equal(t, "merchant-1", row.MerchantID)
}
