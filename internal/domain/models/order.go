package models

import "time"

// OrderStatus enumerates the lifecycle states an order can report.
type OrderStatus string

const (
	StatusPendente   OrderStatus = "pendente"
	StatusPreparando OrderStatus = "preparando"
	StatusEntregue   OrderStatus = "entregue"
	StatusConcluido  OrderStatus = "concluido"
	StatusCancelado  OrderStatus = "cancelado"
)

// Approved reports whether the status counts as a successful terminal state.
func (s OrderStatus) Approved() bool {
	return s == StatusEntregue || s == StatusConcluido
}

// Order is one order record from the pedidos collection.
type Order struct {
	ID              string      `bson:"_id,omitempty" json:"id"`
	Status          OrderStatus `bson:"status" json:"status"`
	CreatedAt       time.Time   `bson:"created_at" json:"created_at"`
	TempoPreparoMin float64     `bson:"tempo_preparo_min,omitempty" json:"tempo_preparo_min"`
	TempoEntregaMin float64     `bson:"tempo_entrega_min,omitempty" json:"tempo_entrega_min"`
	ValorTotal      float64     `bson:"valor_total,omitempty" json:"valor_total"`
}

// Normalize applies the parse-or-default rule once at ingestion: absent or
// negative numeric fields collapse to zero so downstream aggregation never
// re-coerces.
func (o Order) Normalize() Order {
	if o.TempoPreparoMin < 0 {
		o.TempoPreparoMin = 0
	}
	if o.TempoEntregaMin < 0 {
		o.TempoEntregaMin = 0
	}
	if o.ValorTotal < 0 {
		o.ValorTotal = 0
	}
	return o
}

// TotalMinutes returns preparation plus delivery time for the order.
func (o Order) TotalMinutes() float64 {
	return o.TempoPreparoMin + o.TempoEntregaMin
}

// NormalizeOrders normalizes every record of a fetched batch.
func NormalizeOrders(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = o.Normalize()
	}
	return out
}
