package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/logimax/analytics/internal/domain/models"
)

// ConversionStats is the order conversion breakdown for a window.
type ConversionStats struct {
	Total            int
	Approved         int
	Canceled         int
	Rate             float64
	CancellationRate float64
}

// Conversion reduces the orders of a window into conversion figures. Totals
// always satisfy total = approved + canceled + other; rates are zero when the
// window is empty.
func Conversion(orders []models.Order) ConversionStats {
	stats := ConversionStats{Total: len(orders)}
	for _, o := range orders {
		switch {
		case o.Status.Approved():
			stats.Approved++
		case o.Status == models.StatusCancelado:
			stats.Canceled++
		}
	}

	if stats.Total > 0 {
		stats.Rate = float64(stats.Approved) / float64(stats.Total) * 100
		stats.CancellationRate = float64(stats.Canceled) / float64(stats.Total) * 100
	}
	return stats
}

// DeliveryTimeStats is the average delivery time over delivered orders.
// AvgMinutes is only meaningful when Delivered > 0; callers must check
// HasData before reading it, since zero would look like a fast delivery.
type DeliveryTimeStats struct {
	Delivered  int
	AvgMinutes float64
}

// HasData reports whether the window had at least one delivered order.
func (d DeliveryTimeStats) HasData() bool {
	return d.Delivered > 0
}

// DeliveryTime averages preparation plus delivery minutes over the orders
// with status entregue.
func DeliveryTime(orders []models.Order) DeliveryTimeStats {
	var stats DeliveryTimeStats
	var sum float64
	for _, o := range orders {
		if o.Status != models.StatusEntregue {
			continue
		}
		sum += o.TotalMinutes()
		stats.Delivered++
	}

	if stats.Delivered > 0 {
		stats.AvgMinutes = sum / float64(stats.Delivered)
	}
	return stats
}

// TicketStats aggregates revenue over all orders of a window, regardless of
// status.
type TicketStats struct {
	Total   int
	Revenue decimal.Decimal
	Avg     decimal.Decimal
}

// Ticket sums valor_total over the full window and derives the average
// ticket. Both values are externally observable; the average is zero when
// the window is empty.
func Ticket(orders []models.Order) TicketStats {
	stats := TicketStats{Total: len(orders), Revenue: decimal.Zero, Avg: decimal.Zero}
	for _, o := range orders {
		stats.Revenue = stats.Revenue.Add(decimal.NewFromFloat(o.ValorTotal))
	}

	if stats.Total > 0 {
		stats.Avg = stats.Revenue.Div(decimal.NewFromInt(int64(stats.Total)))
	}
	return stats
}

// Snapshot runs the three calculators over one record set and assembles the
// immutable KPI snapshot for the window. Recomputing over the same records
// yields identical values.
func Snapshot(window models.Window, orders []models.Order) models.KPISnapshot {
	conversion := Conversion(orders)
	delivery := DeliveryTime(orders)
	ticket := Ticket(orders)

	return models.KPISnapshot{
		Window:           window,
		TotalOrders:      conversion.Total,
		Approved:         conversion.Approved,
		Canceled:         conversion.Canceled,
		ConversionRate:   conversion.Rate,
		CancellationRate: conversion.CancellationRate,
		Delivered:        delivery.Delivered,
		AvgDeliveryMin:   delivery.AvgMinutes,
		TotalRevenue:     ticket.Revenue,
		AvgTicket:        ticket.Avg,
	}
}
