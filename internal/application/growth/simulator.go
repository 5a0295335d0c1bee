package growth

import (
	"context"
	"errors"
	"math/rand"

	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/ecomsync/backend/internal/infrastructure/platform"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrSynthesisExhausted means a unique merchant id/name pair could not be
// found within the attempt budget. It is non-fatal: the run continues
// without synthesis this cycle.
var ErrSynthesisExhausted = errors.New("growth: could not synthesize a unique merchant within attempt budget")

// Growth bounds per simulator run. Sales, orders, customers and products are
// monotonically non-decreasing: the new value is floored at the previous one.
// Average order value deliberately jitters in both directions with no floor,
// preserving the original model's asymmetry.
const (
	maxSalesGrowth    = 0.15
	maxOrdersGrowth   = 0.10
	aovJitter         = 0.05
	maxCustomerGrowth = 0.05
	maxProductGrowth  = 0.02

	newMerchantChance = 0.20
	mirrorChance      = 0.30
	synthesisAttempts = 5
)

// Simulator evolves existing merchant metrics plausibly and occasionally
// mints new merchants, writing everything through the repository's upsert
// contract. It never inserts past the natural-key invariant.
type Simulator struct {
	metrics  commerce.MerchantMetricRepository
	adapters map[commerce.Platform]platform.Adapter
	rng      *rand.Rand
	logger   *zap.Logger
}

// NewSimulator creates a growth simulator. The rand source is injected so
// tests can pin a seed and assert deterministic trajectories.
func NewSimulator(
	metrics commerce.MerchantMetricRepository,
	adapters map[commerce.Platform]platform.Adapter,
	rng *rand.Rand,
	logger *zap.Logger,
) *Simulator {
	return &Simulator{
		metrics:  metrics,
		adapters: adapters,
		rng:      rng,
		logger:   logger.Named("growth"),
	}
}

// PlatformOutcome summarizes one platform's share of a simulator cycle
type PlatformOutcome struct {
	Platform commerce.Platform
	Updated  int
	Created  int
	Err      error
}

// RunCycle processes every platform once. A failure on one platform is
// recorded in its outcome and does not prevent the other platform from being
// processed.
func (s *Simulator) RunCycle(ctx context.Context) []PlatformOutcome {
	outcomes := make([]PlatformOutcome, 0, len(commerce.AllPlatforms()))
	for _, p := range commerce.AllPlatforms() {
		outcome := s.runPlatform(ctx, p)
		if outcome.Err != nil {
			s.logger.Error("platform cycle failed",
				zap.String("platform", string(p)),
				zap.Error(outcome.Err),
			)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// runPlatform grows every existing metric row for the platform, then rolls
// the dice on minting a brand-new merchant.
func (s *Simulator) runPlatform(ctx context.Context, p commerce.Platform) PlatformOutcome {
	outcome := PlatformOutcome{Platform: p}

	existing, err := s.metrics.FindAllForPlatform(ctx, p)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	for i := range existing {
		grown := s.grow(&existing[i])
		if _, err := s.metrics.Upsert(ctx, grown); err != nil {
			// One bad row does not abort the rest of the platform.
			s.logger.Error("failed to persist grown metrics",
				zap.String("platform", string(p)),
				zap.String("merchant_id", existing[i].MerchantID),
				zap.Error(err),
			)
			continue
		}
		outcome.Updated++
	}

	if s.rng.Float64() < newMerchantChance {
		created, err := s.synthesize(ctx, p)
		if err != nil {
			if errors.Is(err, ErrSynthesisExhausted) {
				s.logger.Warn("merchant synthesis skipped",
					zap.String("platform", string(p)),
					zap.Error(err),
				)
			} else {
				outcome.Err = err
			}
			return outcome
		}
		outcome.Created = created
	}

	return outcome
}

// grow applies one cycle of bounded randomized growth to a metric row
func (s *Simulator) grow(m *commerce.MerchantMetric) *commerce.MerchantMetric {
	grown := *m
	grown.TotalSales = s.growDecimal(m.TotalSales, maxSalesGrowth)
	grown.TotalOrders = s.growInt(m.TotalOrders, maxOrdersGrowth)
	grown.AverageOrderValue = s.jitterDecimal(m.AverageOrderValue, aovJitter)
	grown.TotalCustomers = s.growInt(m.TotalCustomers, maxCustomerGrowth)
	grown.TotalProducts = s.growInt(m.TotalProducts, maxProductGrowth)
	return &grown
}

// growDecimal multiplies by a factor in [1, 1+bound], floored at the previous
// value so the series never decreases
func (s *Simulator) growDecimal(old decimal.Decimal, bound float64) decimal.Decimal {
	factor := decimal.NewFromFloat(1 + s.rng.Float64()*bound)
	return decimal.Max(old, old.Mul(factor).Round(2))
}

// growInt is growDecimal for integer counters
func (s *Simulator) growInt(old int, bound float64) int {
	grown := int(float64(old) * (1 + s.rng.Float64()*bound))
	if grown < old {
		return old
	}
	return grown
}

// jitterDecimal multiplies by a factor in [1-bound, 1+bound] with no floor
func (s *Simulator) jitterDecimal(old decimal.Decimal, bound float64) decimal.Decimal {
	factor := decimal.NewFromFloat(1 - bound + s.rng.Float64()*2*bound)
	return old.Mul(factor).Round(2)
}

// synthesize mints a new merchant on platform p, verifying global uniqueness
// of both id and name within the attempt budget. With a secondary chance the
// merchant is mirrored onto the other platform with independently generated
// metrics. Returns the number of rows created.
func (s *Simulator) synthesize(ctx context.Context, p commerce.Platform) (int, error) {
	name, id, err := s.uniqueMerchant(ctx)
	if err != nil {
		return 0, err
	}

	metric := s.adapters[p].GenerateMetrics(id, name)
	if _, err := s.metrics.Upsert(ctx, &metric); err != nil {
		return 0, err
	}
	created := 1
	s.logger.Info("new merchant created",
		zap.String("platform", string(p)),
		zap.String("merchant_id", id),
		zap.String("merchant_name", name),
	)

	if s.rng.Float64() < mirrorChance {
		other := p.Other()
		mirrored := s.adapters[other].GenerateMetrics(id, name)
		if _, err := s.metrics.Upsert(ctx, &mirrored); err != nil {
			return created, err
		}
		created++
		s.logger.Info("merchant mirrored to other platform",
			zap.String("platform", string(other)),
			zap.String("merchant_id", id),
		)
	}

	return created, nil
}

// uniqueMerchant draws name/id pairs until both are globally unique or the
// attempt budget is exhausted
func (s *Simulator) uniqueMerchant(ctx context.Context) (name, id string, err error) {
	for attempt := 0; attempt < synthesisAttempts; attempt++ {
		name = GenerateMerchantName(s.rng)
		id = MerchantIDFromName(name, s.rng)

		idTaken, err := s.metrics.ExistsByMerchantID(ctx, id)
		if err != nil {
			return "", "", err
		}
		nameTaken, err := s.metrics.ExistsByMerchantName(ctx, name)
		if err != nil {
			return "", "", err
		}
		if !idTaken && !nameTaken {
			return name, id, nil
		}
	}
	return "", "", ErrSynthesisExhausted
}
