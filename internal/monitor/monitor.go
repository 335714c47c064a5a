// Package monitor procura pedidos parados e registra a recomendação de um modelo generativo.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	component = "ai-monitor"

	advicePrefix = "AI Advice for stalled orders: "

	// runTimeout limita um ciclo para não acumular execuções
	runTimeout = 2 * time.Minute
)

// Result resume um ciclo do monitor
type Result struct {
	Stalled int
	Advice  string
}

// Monitor verifica pedidos pendentes há mais tempo que stallAfter
type Monitor struct {
	repository Repository
	advisor    Advisor
	stallAfter time.Duration
	logger     logrus.FieldLogger
	now        func() time.Time
	runs       metric.Int64Counter
}

// New cria um Monitor
func New(repository Repository, advisor Advisor, stallAfter time.Duration, logger logrus.FieldLogger) *Monitor {
	runs, _ := otel.Meter("storefront/monitor").Int64Counter(
		"ai_monitor_runs_total",
		metric.WithDescription("AI monitor passes by outcome"),
	)

	return &Monitor{
		repository: repository,
		advisor:    advisor,
		stallAfter: stallAfter,
		logger:     logger.WithField("component", component),
		now:        func() time.Time { return time.Now().UTC() },
		runs:       runs,
	}
}

// BuildPrompt monta a pergunta enviada ao modelo
func BuildPrompt(stalled []StalledOrder, stallAfter time.Duration) string {
	numbers := make([]string, 0, len(stalled))
	for _, o := range stalled {
		numbers = append(numbers, o.OrderNumber)
	}

	return fmt.Sprintf(
		"I have %d orders that have been stuck in 'pending' status for over %s.\n"+
			"Order IDs: %s.\n"+
			"What should be the automated action? (e.g., retry, alert admin, mark as failed).\n"+
			"Provide a brief summary of the situation for the system logs.",
		len(stalled), humanDuration(stallAfter), strings.Join(numbers, ", "),
	)
}

// RunOnce executa um ciclo: sem pedidos parados não chama o modelo
func (m *Monitor) RunOnce(ctx context.Context) (*Result, error) {
	m.logger.Info("🤖 AI Monitor running...")

	stalled, err := m.repository.ListStalled(ctx, m.now().Add(-m.stallAfter))
	if err != nil {
		m.record(ctx, "error")
		return nil, err
	}

	if len(stalled) == 0 {
		m.record(ctx, "idle")
		return &Result{}, nil
	}

	advice, err := m.advisor.Advise(ctx, BuildPrompt(stalled, m.stallAfter))
	if err != nil {
		m.record(ctx, "error")
		return nil, fmt.Errorf("failed to get advice for %d stalled orders: %w", len(stalled), err)
	}

	if err := m.repository.InsertSystemLog(ctx, NewSystemLog("info", advicePrefix+advice, m.now())); err != nil {
		m.record(ctx, "error")
		return nil, err
	}

	m.record(ctx, "advised")
	m.logger.WithField("stalled", len(stalled)).Infof("ℹ️ AI Advice: %s", advice)

	return &Result{Stalled: len(stalled), Advice: advice}, nil
}

// Schedule registra RunOnce no cron. Erros só são logados.
func (m *Monitor) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if _, err := m.RunOnce(ctx); err != nil {
			m.logger.WithError(err).Error("❌ AI Monitor error")
		}
	})
	if err != nil {
		return 0, fmt.Errorf("invalid monitor schedule %q: %w", spec, err)
	}
	return id, nil
}

// NewCron cria o agendador com logs em logrus e sem sobreposição de execuções
func NewCron(logger logrus.FieldLogger) *cron.Cron {
	cl := CronLogger{logger: logger.WithField("component", "cron")}
	return cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
}

func (m *Monitor) record(ctx context.Context, outcome string) {
	m.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func humanDuration(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "an hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", d/time.Minute)
	}
	return d.String()
}

// CronLogger adapta logrus à interface cron.Logger
type CronLogger struct {
	logger logrus.FieldLogger
}

var _ cron.Logger = CronLogger{}

func (l CronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.WithError(err).WithFields(fields(keysAndValues)).Error(msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
