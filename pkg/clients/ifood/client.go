package ifood

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/logimax/analytics/internal/config"
)

const (
	authPath          = "/authentication/v1.0/oauth/token"
	dateLayout        = "2006-01-02"
	tokenSafetyMargin = 60 * time.Second
)

// Client exposes the iFood Merchant API operations used by the application.
type Client interface {
	SalesMetrics(ctx context.Context, merchantID string, start, end time.Time) (*SalesMetrics, error)
	FunnelMetrics(ctx context.Context, merchantID string, start, end time.Time) (*FunnelMetrics, error)
	OperationalMetrics(ctx context.Context, merchantID string) (*OperationalMetrics, error)
}

// APIClient is a resty-backed implementation of Client with cached OAuth
// client-credentials tokens.
type APIClient struct {
	httpClient   *resty.Client
	clientID     string
	clientSecret string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient builds an iFood API client using the provided configuration values.
func NewClient(cfg config.IFoodConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(20 * time.Second)

	return &APIClient{
		httpClient:   restyClient,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
	}
}

// SalesMetrics is the sales block of the merchant metrics.
type SalesMetrics struct {
	VendasTotal      int     `json:"vendas_total"`
	ClientesNovos    int     `json:"clientes_novos"`
	FaturamentoTotal float64 `json:"faturamento_total"`
	TicketMedio      float64 `json:"ticket_medio"`
	ConversaoPct     float64 `json:"conversao_pct"`
}

// FunnelMetrics is the sales funnel block of the merchant metrics.
type FunnelMetrics struct {
	Visitas       int `json:"visitas"`
	Visualizacoes int `json:"visualizacoes"`
	Sacola        int `json:"sacola"`
	Revisao       int `json:"revisao"`
	Concluidos    int `json:"concluidos"`
}

// OperationalMetrics is the store operation block of the merchant metrics.
type OperationalMetrics struct {
	TempoAbertoPct       float64 `json:"tempo_aberto_pct"`
	PedidosCanceladosPct float64 `json:"pedidos_cancelados_pct"`
	NotaLoja             float64 `json:"nota_loja"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
	Type        string `json:"type"`
}

// apiError represents an iFood Merchant API error payload.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func (e *apiError) text() string {
	if e == nil {
		return ""
	}
	if e.Error.Message != "" {
		return e.Error.Message
	}
	return e.Message
}

// token returns a valid bearer token, reusing the cached one until shortly
// before expiry.
func (c *APIClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-tokenSafetyMargin)) {
		return c.accessToken, nil
	}

	result := new(tokenResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"grantType":    "client_credentials",
			"clientId":     c.clientID,
			"clientSecret": c.clientSecret,
		}).
		SetResult(result).
		SetError(apiErr).
		Post(authPath)
	if err != nil {
		return "", fmt.Errorf("ifood auth: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return "", fmt.Errorf("ifood auth failed: status=%d, message=%s", resp.StatusCode(), apiErr.text())
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("ifood auth returned empty access token")
	}

	c.accessToken = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

func (c *APIClient) get(ctx context.Context, path string, query map[string]string, result any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	apiErr := new(apiError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(query).
		SetResult(result).
		SetError(apiErr).
		Get(path)
	if err != nil {
		return fmt.Errorf("ifood api get %s: %w", path, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("ifood api error on %s: status=%d, message=%s", path, resp.StatusCode(), apiErr.text())
	}
	return nil
}

// SalesMetrics fetches total sales, new customers, revenue and average
// ticket for the merchant over the period.
func (c *APIClient) SalesMetrics(ctx context.Context, merchantID string, start, end time.Time) (*SalesMetrics, error) {
	result := new(SalesMetrics)
	query := map[string]string{
		"beginDate": start.Format(dateLayout),
		"endDate":   end.Format(dateLayout),
	}
	if err := c.get(ctx, fmt.Sprintf("/financial/v1.0/merchants/%s/sales", merchantID), query, result); err != nil {
		return nil, err
	}
	return result, nil
}

// FunnelMetrics fetches the visit-to-order funnel counters for the merchant
// over the period.
func (c *APIClient) FunnelMetrics(ctx context.Context, merchantID string, start, end time.Time) (*FunnelMetrics, error) {
	result := new(FunnelMetrics)
	query := map[string]string{
		"beginDate": start.Format(dateLayout),
		"endDate":   end.Format(dateLayout),
	}
	if err := c.get(ctx, fmt.Sprintf("/merchant/v1.0/merchants/%s/funnel", merchantID), query, result); err != nil {
		return nil, err
	}
	return result, nil
}

// OperationalMetrics fetches opening time, cancellation rate and store
// rating for the merchant.
func (c *APIClient) OperationalMetrics(ctx context.Context, merchantID string) (*OperationalMetrics, error) {
	result := new(OperationalMetrics)
	if err := c.get(ctx, fmt.Sprintf("/merchant/v1.0/merchants/%s/operation", merchantID), nil, result); err != nil {
		return nil, err
	}
	return result, nil
}
