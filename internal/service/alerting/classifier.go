package alerting

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/logimax/analytics/internal/config"
	"github.com/logimax/analytics/internal/domain/models"
)

// Classify grades a KPI snapshot against the configured thresholds and
// returns zero, one or two alerts, one per breached metric, never combined.
// A metric only raises an alert when it is computable: conversion needs at
// least one order, delivery time needs at least one delivered order.
func Classify(snapshot models.KPISnapshot, thresholds config.Thresholds, now time.Time) []models.Alert {
	var alerts []models.Alert

	if snapshot.TotalOrders > 0 && snapshot.ConversionRate < thresholds.ConversionTarget {
		nivel := models.SeverityMedium
		switch {
		case snapshot.ConversionRate < thresholds.ConversionCritical:
			nivel = models.SeverityCritical
		case snapshot.ConversionRate < thresholds.ConversionHigh:
			nivel = models.SeverityHigh
		}

		alerts = append(alerts, models.Alert{
			ID:         uuid.NewString(),
			Tipo:       models.AlertLowConversion,
			Nivel:      nivel,
			ValorAtual: fmt.Sprintf("%.1f%%", snapshot.ConversionRate),
			Meta:       formatTarget(thresholds.ConversionTarget) + "%",
			Desvio:     fmt.Sprintf("%.1f%% abaixo da meta", thresholds.ConversionTarget-snapshot.ConversionRate),
			Timestamp:  now,
			Status:     models.AlertStatusActive,
			Sistema:    models.SourceSystem,
		})
	}

	if snapshot.HasDeliveryTime() && snapshot.AvgDeliveryMin > thresholds.DeliveryTargetMin {
		nivel := models.SeverityHigh
		if snapshot.AvgDeliveryMin > thresholds.DeliveryCriticalMin {
			nivel = models.SeverityCritical
		}

		alerts = append(alerts, models.Alert{
			ID:         uuid.NewString(),
			Tipo:       models.AlertHighDeliveryTime,
			Nivel:      nivel,
			ValorAtual: fmt.Sprintf("%.1f min", snapshot.AvgDeliveryMin),
			Meta:       formatTarget(thresholds.DeliveryTargetMin) + " min",
			Desvio:     fmt.Sprintf("%.1f min acima da meta", snapshot.AvgDeliveryMin-thresholds.DeliveryTargetMin),
			Timestamp:  now,
			Status:     models.AlertStatusActive,
			Sistema:    models.SourceSystem,
		})
	}

	return alerts
}

func formatTarget(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
