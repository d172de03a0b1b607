package models

import "time"

// ReportTypeDaily is the only report type this service generates.
const ReportTypeDaily = "diario"

// ConversionSection is the conversion block of a daily report.
type ConversionSection struct {
	TotalPedidos  int    `bson:"total_pedidos" json:"total_pedidos"`
	Aprovados     int    `bson:"aprovados" json:"aprovados"`
	Cancelados    int    `bson:"cancelados" json:"cancelados"`
	TaxaConversao string `bson:"taxa_conversao" json:"taxa_conversao"`
}

// DeliveryTimeSection is the delivery time block of a daily report.
type DeliveryTimeSection struct {
	PedidosEntregues int     `bson:"pedidos_entregues" json:"pedidos_entregues"`
	TempoMedioMin    float64 `bson:"tempo_medio_min" json:"tempo_medio_min"`
}

// TicketSection is the revenue block of a daily report.
type TicketSection struct {
	FaturamentoTotal string `bson:"faturamento_total" json:"faturamento_total"`
	TicketMedio      string `bson:"ticket_medio" json:"ticket_medio"`
}

// ReportData is the consolidated KPI payload embedded in a daily report.
type ReportData struct {
	Data              string              `bson:"data" json:"data"`
	GeradoEm          time.Time           `bson:"gerado_em" json:"gerado_em"`
	Sistema           string              `bson:"sistema" json:"sistema"`
	TaxaConversao     ConversionSection   `bson:"taxa_conversao" json:"taxa_conversao"`
	TempoMedioEntrega DeliveryTimeSection `bson:"tempo_medio_entrega" json:"tempo_medio_entrega"`
	TicketMedio       TicketSection       `bson:"ticket_medio" json:"ticket_medio"`
}

// DailyReport is the persisted snapshot for one reference date. Exactly one
// document exists per data_referencia; regenerating a day replaces it.
type DailyReport struct {
	DataReferencia string     `bson:"data_referencia" json:"data_referencia"`
	Dados          ReportData `bson:"dados" json:"dados"`
	Tipo           string     `bson:"tipo" json:"tipo"`
	GeradoPor      string     `bson:"gerado_por" json:"gerado_por"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
}
