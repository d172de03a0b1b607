package models

import "github.com/shopspring/decimal"

// KPISnapshot is the immutable result of aggregating the orders of one
// window. Values are carried at full precision; rounding happens only at
// presentation boundaries.
type KPISnapshot struct {
	Window Window

	TotalOrders      int
	Approved         int
	Canceled         int
	ConversionRate   float64
	CancellationRate float64

	// Delivered counts orders with status entregue. AvgDeliveryMin is only
	// meaningful when Delivered > 0; a zero average would read as "fast
	// delivery" when it actually means "no data".
	Delivered      int
	AvgDeliveryMin float64

	TotalRevenue decimal.Decimal
	AvgTicket    decimal.Decimal
}

// HasDeliveryTime reports whether the window had at least one delivered
// order, i.e. whether AvgDeliveryMin carries a real measurement.
func (s KPISnapshot) HasDeliveryTime() bool {
	return s.Delivered > 0
}
