package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/logimax/analytics/internal/config"
	"github.com/logimax/analytics/internal/domain/models"
	"github.com/logimax/analytics/internal/service/alerting"
	"github.com/logimax/analytics/internal/service/reporting"
)

// Scheduler manages the background KPI jobs.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	alertingSvc  *alerting.Service
	cfg          config.SchedulingConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. Cron expressions are the
// standard 5-field form (min, hour, dom, month, dow), evaluated in the
// configured timezone.
func NewScheduler(cfg config.SchedulingConfig, reportingSvc *reporting.Service, alertingSvc *alerting.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.UTC
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(location)),
		reportingSvc: reportingSvc,
		alertingSvc:  alertingSvc,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the daily report and alert scan jobs and starts the cron
// loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("daily_report_cron", s.cfg.DailyReportCron),
		zap.String("alert_scan_cron", s.cfg.AlertScanCron))

	if _, err := s.cron.AddFunc(s.cfg.DailyReportCron, s.generateDailyReport); err != nil {
		s.logger.Error("failed to schedule daily report", zap.Error(err))
	}
	if _, err := s.cron.AddFunc(s.cfg.AlertScanCron, s.scanAlerts); err != nil {
		s.logger.Error("failed to schedule alert scan", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) generateDailyReport() {
	s.logger.Info("generating daily report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.reportingSvc.GenerateDailyReport(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to generate daily report", zap.Error(err))
		return
	}

	s.logger.Info("daily report generated", zap.String("data_referencia", report.DataReferencia))
}

func (s *Scheduler) scanAlerts() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	alerts, err := s.alertingSvc.Scan(ctx, models.DaySoFar(time.Now()))
	if err != nil {
		s.logger.Error("scheduled alert scan failed", zap.Error(err))
		return
	}

	s.logger.Info("scheduled alert scan finished", zap.Int("alertas_gerados", len(alerts)))
}
