package service

import (
	"math/rand"

	"github.com/fazeltamana/Portal/internal/models"
	"github.com/fazeltamana/Portal/pkg/config"
)

// FallbackFeePolicy prices a submission when neither the service's base fee
// nor the department table applies.
type FallbackFeePolicy interface {
	FallbackFee(departmentID string) int64
}

// FixedFallback always returns the same amount. This is the default policy:
// fee assessment stays reproducible.
type FixedFallback int64

// FallbackFee implements FallbackFeePolicy.
func (f FixedFallback) FallbackFee(string) int64 {
	return int64(f)
}

// RandomFallback draws a bounded pseudo-random amount. It reproduces the
// legacy behaviour of pricing unconfigured services at random and exists only
// behind an explicit opt-in; the randomness source is injectable so a seeded
// source makes it deterministic under test.
type RandomFallback struct {
	min, max int64
	rng      *rand.Rand
}

// NewRandomFallback constructs the policy over [min, max) with the given
// source.
func NewRandomFallback(min, max int64, src rand.Source) *RandomFallback {
	if max <= min {
		max = min + 1
	}
	return &RandomFallback{min: min, max: max, rng: rand.New(src)}
}

// FallbackFee implements FallbackFeePolicy.
func (f *RandomFallback) FallbackFee(string) int64 {
	return f.min + f.rng.Int63n(f.max-f.min)
}

// FeeAssessor computes the fee for a submitted request. Policy order: a
// positive base fee on the service wins verbatim, then the per-department
// table, then the fallback policy.
type FeeAssessor struct {
	table    map[string]int64
	fallback FallbackFeePolicy
}

// NewFeeAssessor builds an assessor from configuration. The random fallback
// is only used when explicitly enabled; otherwise the fixed default applies.
func NewFeeAssessor(cfg config.FeesConfig, src rand.Source) *FeeAssessor {
	var fallback FallbackFeePolicy = FixedFallback(cfg.DefaultCents)
	if cfg.RandomFallback && src != nil {
		fallback = NewRandomFallback(cfg.RandomMinCents, cfg.RandomMaxCents, src)
	}
	return &FeeAssessor{table: cfg.DepartmentTable, fallback: fallback}
}

// NewFeeAssessorWithPolicy builds an assessor with an explicit fallback.
func NewFeeAssessorWithPolicy(table map[string]int64, fallback FallbackFeePolicy) *FeeAssessor {
	if fallback == nil {
		fallback = FixedFallback(0)
	}
	return &FeeAssessor{table: table, fallback: fallback}
}

// Assess returns the fee in cents for the given service.
func (a *FeeAssessor) Assess(service *models.Service) int64 {
	if service.BaseFeeCents > 0 {
		return service.BaseFeeCents
	}
	if fee, ok := a.table[service.DepartmentID]; ok {
		return fee
	}
	return a.fallback.FallbackFee(service.DepartmentID)
}
