package models

import "time"

// WeeklyMetrics is one row of metricas_semanais_ifood, populated by the
// merchant API sync. Funnel and operational column groups are filled from the
// corresponding endpoints; columns the API did not return stay at zero.
type WeeklyMetrics struct {
	MerchantID string    `bson:"merchant_id" json:"merchant_id"`
	Mes        int       `bson:"mes" json:"mes"`
	Ano        int       `bson:"ano" json:"ano"`
	DataInicio string    `bson:"data_inicio" json:"data_inicio"`
	DataFim    string    `bson:"data_fim" json:"data_fim"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`

	// Sales
	VendasTotal      int     `bson:"vendas_total" json:"vendas_total"`
	ClientesNovos    int     `bson:"clientes_novos" json:"clientes_novos"`
	FaturamentoTotal float64 `bson:"faturamento_total" json:"faturamento_total"`
	TicketMedio      float64 `bson:"ticket_medio" json:"ticket_medio"`
	ConversaoPct     float64 `bson:"conversao_pct" json:"conversao_pct"`

	// Funnel
	Visitas       int `bson:"visitas" json:"visitas"`
	Visualizacoes int `bson:"visualizacoes" json:"visualizacoes"`
	Sacola        int `bson:"sacola" json:"sacola"`
	Revisao       int `bson:"revisao" json:"revisao"`
	Concluidos    int `bson:"concluidos" json:"concluidos"`

	// Operation
	TempoAbertoPct       float64 `bson:"tempo_aberto_pct" json:"tempo_aberto_pct"`
	PedidosCanceladosPct float64 `bson:"pedidos_cancelados_pct" json:"pedidos_cancelados_pct"`
	NotaLoja             float64 `bson:"nota_loja" json:"nota_loja"`
}
