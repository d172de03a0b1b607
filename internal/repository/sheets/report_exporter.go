package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/logimax/analytics/internal/config"
	"github.com/logimax/analytics/internal/domain/models"
)

// SheetExporter mirrors daily reports into the ops spreadsheet using the
// official Google Sheets API.
type SheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	reportRange   string
	logger        *zap.Logger
}

// NewSheetExporter builds a Google Sheets backed report exporter.
func NewSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*SheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &SheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		reportRange:   cfg.ReportRange,
		logger:        logger,
	}, nil
}

// AppendDailyReport appends one row with the report's KPI figures to the
// configured range.
func (e *SheetExporter) AppendDailyReport(ctx context.Context, report models.DailyReport) error {
	row := []interface{}{
		report.DataReferencia,
		report.Dados.TaxaConversao.TotalPedidos,
		report.Dados.TaxaConversao.Aprovados,
		report.Dados.TaxaConversao.Cancelados,
		report.Dados.TaxaConversao.TaxaConversao,
		report.Dados.TempoMedioEntrega.TempoMedioMin,
		report.Dados.TicketMedio.FaturamentoTotal,
		report.Dados.TicketMedio.TicketMedio,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, e.reportRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append report row for %s: %w", report.DataReferencia, err)
	}

	e.logger.Debug("report row appended to sheet", zap.String("data_referencia", report.DataReferencia))
	return nil
}
