package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"herocraft/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// MetricsProvider manages OpenTelemetry metrics for the bot
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	commandsCounter              metric.Int64Counter
	balanceTransactionsCounter   metric.Int64Counter
	wheelBetsCounter             metric.Int64Counter
	wheelSettlementsCounter      metric.Int64Counter
	wheelPaidCounter             metric.Int64Counter
	lotteryTicketsCounter        metric.Int64Counter
	lotteryDrawingsCounter       metric.Int64Counter
	rideTheBusActiveGauge        metric.Int64UpDownCounter
	rideTheBusEndedCounter       metric.Int64Counter
	natsMessagesPublishedCounter metric.Int64Counter
	databaseQueriesCounter       metric.Int64Counter
	databaseQueryDurationHist    metric.Float64Histogram
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(dialCtx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
			),
		),
	)
	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("herocraft")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

func (mp *MetricsProvider) createInstruments() error {
	var err error

	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&mp.commandsCounter, CommandsHandledTotal, "Total number of slash commands and components handled"},
		{&mp.balanceTransactionsCounter, BalanceTransactionsTotal, "Total number of ledger mutations"},
		{&mp.wheelBetsCounter, WheelBetsTotal, "Total number of accepted wheel bets"},
		{&mp.wheelSettlementsCounter, WheelSettlementsTotal, "Total number of resolved wheel cycles"},
		{&mp.wheelPaidCounter, WheelPaidTotal, "Coins paid out by the wheel"},
		{&mp.lotteryTicketsCounter, LotteryTicketsTotal, "Total number of lottery tickets sold"},
		{&mp.lotteryDrawingsCounter, LotteryDrawingsTotal, "Total number of lottery drawings"},
		{&mp.rideTheBusEndedCounter, RideTheBusSessionsEndTotal, "Total number of finished ride the bus sessions"},
		{&mp.natsMessagesPublishedCounter, NATSMessagesPublishedTotal, "Total number of NATS messages published"},
		{&mp.databaseQueriesCounter, DatabaseQueriesTotal, "Total number of database transactions"},
	}
	for _, c := range counters {
		*c.target, err = mp.meter.Int64Counter(c.name, metric.WithDescription(c.description), metric.WithUnit("1"))
		if err != nil {
			return fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
	}

	mp.rideTheBusActiveGauge, err = mp.meter.Int64UpDownCounter(
		RideTheBusSessionsActive,
		metric.WithDescription("Current number of live ride the bus sessions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create ride the bus gauge: %w", err)
	}

	mp.databaseQueryDurationHist, err = mp.meter.Float64Histogram(
		DatabaseQueryDuration,
		metric.WithDescription("Duration of database transactions in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create database query duration histogram: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the meter provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

func (mp *MetricsProvider) RecordCommand(command string) {
	if !mp.isEnabled() {
		return
	}
	mp.commandsCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.String(LabelCommand, command)))
}

func (mp *MetricsProvider) RecordBalanceTransaction(transactionType string) {
	if !mp.isEnabled() {
		return
	}
	mp.balanceTransactionsCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.String(LabelType, transactionType)))
}

func (mp *MetricsProvider) RecordWheelBet(outcome string) {
	if !mp.isEnabled() {
		return
	}
	mp.wheelBetsCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.String(LabelOutcome, outcome)))
}

// RecordWheelSettlement records one resolved cycle and what it paid
func (mp *MetricsProvider) RecordWheelSettlement(outcome string, paid int64) {
	if !mp.isEnabled() {
		return
	}
	attrs := metric.WithAttributes(attribute.String(LabelOutcome, outcome))
	mp.wheelSettlementsCounter.Add(context.Background(), 1, attrs)
	mp.wheelPaidCounter.Add(context.Background(), paid, attrs)
}

func (mp *MetricsProvider) RecordLotteryTicket(quickPick bool) {
	if !mp.isEnabled() {
		return
	}
	mp.lotteryTicketsCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.Bool("quick_pick", quickPick)))
}

func (mp *MetricsProvider) RecordLotteryDrawing(hasWinners bool) {
	if !mp.isEnabled() {
		return
	}
	mp.lotteryDrawingsCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.Bool("has_winners", hasWinners)))
}

// UpdateActiveSessions moves the live ride the bus session gauge by delta
func (mp *MetricsProvider) UpdateActiveSessions(delta int64) {
	if !mp.isEnabled() {
		return
	}
	mp.rideTheBusActiveGauge.Add(context.Background(), delta)
}

func (mp *MetricsProvider) RecordSessionEnded(status string) {
	if !mp.isEnabled() {
		return
	}
	mp.rideTheBusEndedCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.String(LabelStatus, status)))
}

func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}
	mp.natsMessagesPublishedCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.String(LabelEventType, eventType)))
}

// RecordDatabaseQuery records a database call with its duration
func (mp *MetricsProvider) RecordDatabaseQuery(repository, method string, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelRepository, repository),
		attribute.String(LabelMethod, method),
	)
	mp.databaseQueriesCounter.Add(context.Background(), 1, attrs)
	mp.databaseQueryDurationHist.Record(context.Background(), duration.Seconds(), attrs)
}

// MeasureDatabaseQuery returns a function to measure database query duration
// Usage:
//
//	defer mp.MeasureDatabaseQuery("wheel", "settle")()
func (mp *MetricsProvider) MeasureDatabaseQuery(repository, method string) func() {
	start := time.Now()
	return func() {
		mp.RecordDatabaseQuery(repository, method, time.Since(start))
	}
}

// isEnabled reports whether instruments exist. A nil provider is disabled.
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.meter != nil
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider. It may be nil, and every
// recording method is safe on a nil provider.
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
