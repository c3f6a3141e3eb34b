package observability

import (
	"context"
	"testing"
	"time"

	"herocraft/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsProvider_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	cfg := config.NewTestConfig()
	cfg.OTelEnabled = false

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	assert.False(t, mp.isEnabled())

	assert.NotPanics(t, func() {
		mp.RecordBalanceTransaction("wheel_bet")
		mp.RecordWheelSettlement("blue", 300)
		mp.MeasureDatabaseQuery("wheel", "settle")()
	})
}

func TestMetricsProvider_NoneExporterIsNoop(t *testing.T) {
	t.Parallel()

	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "none"

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	assert.NotPanics(t, func() { mp.RecordLotteryTicket(true) })
}

func TestMetricsProvider_NilProviderIsSafe(t *testing.T) {
	t.Parallel()

	var mp *MetricsProvider
	assert.NotPanics(t, func() {
		mp.RecordSessionEnded("won")
		mp.UpdateActiveSessions(1)
	})
}

func TestMetricsProvider_ConsoleExporter(t *testing.T) {
	t.Parallel()

	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "console"
	cfg.OTelExportIntervalMillis = int((time.Hour).Milliseconds())

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	assert.True(t, mp.isEnabled())

	mp.RecordWheelBet("red")
	mp.RecordDatabaseQuery("account", "GetOrCreateForUpdate", 3*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	t.Parallel()

	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "carrier-pigeon"

	err := NewMetricsProvider(cfg).Initialize(context.Background())
	assert.ErrorContains(t, err, "unknown exporter type")
}
