package bench

import (
	"context"
	"testing"
	"time"

	"actorcell/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig(dispatcher string) *config.Config {
	cfg := config.Default()
	cfg.Cell.Dispatcher = dispatcher
	cfg.Cell.Throughput = 50
	cfg.Bench.Producers = 4
	cfg.Bench.Messages = 2000
	cfg.Bench.LateMessages = 10
	cfg.Bench.ReportInterval = 0
	cfg.Bench.Timeout = 10 * time.Second
	return cfg
}

func TestRun(t *testing.T) {
	for _, d := range []string{config.DispatcherPool, config.DispatcherGoroutine, config.DispatcherSynchronized} {
		t.Run(d, func(t *testing.T) {
			result, err := Run(context.Background(), smallConfig(d))
			require.NoError(t, err)
			assert.True(t, result.OK())
			assert.Equal(t, int64(1+4*2000), result.FinalState)
			assert.Equal(t, uint64(10), result.DeadLetters)
			assert.Equal(t, uint64(8010), result.Posted)
			assert.Equal(t, uint64(8000), result.Stats.Handled)
			assert.Equal(t, uint64(10), result.Stats.DeadLetters)
		})
	}
}

func TestRun_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := smallConfig(config.DispatcherPool)
	cfg.Bench.LateMessages = 1
	_, err := Run(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}
