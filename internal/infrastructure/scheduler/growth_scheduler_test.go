package scheduler

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/ecomsync/backend/internal/application/growth"
	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/ecomsync/backend/internal/domain/shared"
	"github.com/ecomsync/backend/internal/infrastructure/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingMetricRepo records how many platform scans the simulator performed
type countingMetricRepo struct {
	mu    sync.Mutex
	scans int
}

func (r *countingMetricRepo) Upsert(context.Context, *commerce.MerchantMetric) (commerce.UpsertOutcome, error) {
	return commerce.UpsertInserted, nil
}

func (r *countingMetricRepo) FindByNaturalKey(context.Context, string, commerce.Platform) (*commerce.MerchantMetric, error) {
	return nil, shared.ErrNotFound
}

func (r *countingMetricRepo) FindAllForPlatform(context.Context, commerce.Platform) ([]commerce.MerchantMetric, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scans++
	return nil, nil
}

func (r *countingMetricRepo) ExistsByMerchantID(context.Context, string) (bool, error) {
	return false, nil
}

func (r *countingMetricRepo) ExistsByMerchantName(context.Context, string) (bool, error) {
	return false, nil
}

func (r *countingMetricRepo) List(context.Context, shared.Filter) ([]commerce.MerchantMetric, int64, error) {
	return nil, 0, nil
}

func (r *countingMetricRepo) scanCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scans
}

func newTestScheduler(repo *countingMetricRepo, interval time.Duration) *GrowthScheduler {
	rng := rand.New(rand.NewSource(1))
	sim := growth.NewSimulator(repo, platform.NewAdapters(rng), rng, zap.NewNop())
	return NewGrowthScheduler(sim, interval, zap.NewNop())
}

func TestGrowthSchedulerRunsImmediatelyAndOnTicks(t *testing.T) {
	repo := &countingMetricRepo{}
	sched := newTestScheduler(repo, 10*time.Millisecond)

	require.NoError(t, sched.Start(context.Background()))

	// The first cycle runs without waiting for the interval; each cycle scans
	// both platforms.
	require.Eventually(t, func() bool {
		return repo.scanCount() >= 4
	}, time.Second, time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sched.Stop(stopCtx))

	after := repo.scanCount()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, repo.scanCount(), "cycles kept running after Stop")
}

func TestGrowthSchedulerStartIsIdempotent(t *testing.T) {
	repo := &countingMetricRepo{}
	sched := newTestScheduler(repo, time.Hour)

	require.NoError(t, sched.Start(context.Background()))
	require.NoError(t, sched.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sched.Stop(stopCtx))
	require.NoError(t, sched.Stop(stopCtx))
}

func TestGrowthSchedulerStopWithoutStart(t *testing.T) {
	sched := newTestScheduler(&countingMetricRepo{}, time.Hour)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, sched.Stop(stopCtx))
}
