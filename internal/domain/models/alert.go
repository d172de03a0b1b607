package models

import "time"

// Severity grades an alert. Ordering: MÉDIO < ALTO < CRÍTICO.
type Severity string

const (
	SeverityMedium   Severity = "MÉDIO"
	SeverityHigh     Severity = "ALTO"
	SeverityCritical Severity = "CRÍTICO"
)

// AlertType identifies which KPI breached its target.
type AlertType string

const (
	AlertLowConversion    AlertType = "TAXA_CONVERSAO_BAIXA"
	AlertHighDeliveryTime AlertType = "TEMPO_ENTREGA_ALTO"
)

// AlertStatusActive is the lifecycle state of a freshly raised alert. A
// separate resolution process flips it later; this service never does.
const AlertStatusActive = "ativo"

// SourceSystem tags every alert and report row written by this service.
const SourceSystem = "API_IFOOD_ANALYTICS"

// Alert is one threshold breach, shaped like the rows of the alertas
// collection.
type Alert struct {
	ID         string    `bson:"_id,omitempty" json:"id,omitempty"`
	Tipo       AlertType `bson:"tipo" json:"tipo"`
	Nivel      Severity  `bson:"nivel" json:"nivel"`
	ValorAtual string    `bson:"valor_atual" json:"valor_atual"`
	Meta       string    `bson:"meta" json:"meta"`
	Desvio     string    `bson:"desvio" json:"desvio"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
	Status     string    `bson:"status" json:"status"`
	Sistema    string    `bson:"sistema" json:"sistema"`
}
