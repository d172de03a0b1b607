package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/logimax/analytics/internal/domain/models"
	"github.com/logimax/analytics/internal/repository/mongodb"
	"github.com/logimax/analytics/pkg/clients/openai"
)

// ErrAssistantDisabled indicates no AI provider key was configured.
var ErrAssistantDisabled = errors.New("ai assistant is not configured")

const (
	recentOrdersLimit  = 20
	recentReportsLimit = 5
	recentWeeklyLimit  = 5
)

const systemPrompt = `Você é LOGIMAX IA, assistente de supervisão de estratégia operacional para delivery.
Responda APENAS sobre pedidos, KPIs, métricas, alertas e relatórios.
Use os dados operacionais fornecidos em JSON; seja assertivo, direto e baseado em dados.
Para desvios, informe indicador, valor atual, meta e recomendação.`

// OperationalContext is the joined view of recent operational data handed to
// the assistant and to dashboard consumers.
type OperationalContext struct {
	PedidosRecentes    []models.Order         `json:"pedidos_recentes"`
	AlertasAtivos      []models.Alert         `json:"alertas_ativos"`
	RelatoriosRecentes []models.DailyReport   `json:"relatorios_recentes"`
	MetricasSemanais   []models.WeeklyMetrics `json:"metricas_semanais"`
}

// Service assembles operational context and answers advisory questions.
type Service struct {
	orders  mongodb.OrderRepository
	alerts  mongodb.AlertRepository
	reports mongodb.ReportRepository
	metrics mongodb.MetricsRepository
	ai      openai.Client
	logger  *zap.Logger
}

// NewService wires a new advisor service instance. ai may be nil when no
// provider key is configured; context assembly still works, Ask does not.
func NewService(orders mongodb.OrderRepository, alerts mongodb.AlertRepository, reports mongodb.ReportRepository, metrics mongodb.MetricsRepository, ai openai.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orders:  orders,
		alerts:  alerts,
		reports: reports,
		metrics: metrics,
		ai:      ai,
		logger:  logger,
	}
}

// BuildContext fetches the four context slices concurrently and joins them.
// Any failed fetch fails the whole assembly; a silently partial context
// would skew the analysis built on top of it.
func (s *Service) BuildContext(ctx context.Context) (OperationalContext, error) {
	var out OperationalContext

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.PedidosRecentes, err = s.orders.Recent(gctx, recentOrdersLimit)
		return err
	})
	g.Go(func() error {
		var err error
		out.AlertasAtivos, err = s.alerts.Active(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.RelatoriosRecentes, err = s.reports.RecentReports(gctx, recentReportsLimit)
		return err
	})
	g.Go(func() error {
		var err error
		out.MetricasSemanais, err = s.metrics.RecentWeekly(gctx, recentWeeklyLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return OperationalContext{}, fmt.Errorf("build operational context: %w", err)
	}

	return out, nil
}

// Ask answers one advisory question grounded on the current operational
// context.
func (s *Service) Ask(ctx context.Context, question string) (string, error) {
	if s.ai == nil {
		return "", ErrAssistantDisabled
	}
	if question == "" {
		return "", fmt.Errorf("question must not be empty")
	}

	contextData, err := s.BuildContext(ctx)
	if err != nil {
		return "", err
	}

	contextJSON, err := json.Marshal(contextData)
	if err != nil {
		return "", fmt.Errorf("marshal operational context: %w", err)
	}

	user := fmt.Sprintf("Dados operacionais:\n%s\n\nPergunta: %s", contextJSON, question)
	answer, err := s.ai.ChatCompletion(ctx, systemPrompt, user)
	if err != nil {
		return "", fmt.Errorf("advisor ask: %w", err)
	}

	s.logger.Debug("advisor question answered", zap.Int("context_bytes", len(contextJSON)))
	return answer, nil
}
