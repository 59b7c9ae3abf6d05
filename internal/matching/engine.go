// Package matching ranks candidate travel companions for a seeker's match request.
// A call runs must-have filtering, weight derivation, context multipliers,
// composite scoring and top-K ranking. It is a pure function of its inputs.
package matching

import (
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"swellyo-workers/internal/models"
)

// Engine holds configuration and rules only; no state survives a Match call.
type Engine struct {
	cfg           Config
	rules         []Rule
	boardFamilies []map[string]bool
	pool          *ants.Pool
}

// Option customises an Engine.
type Option func(*Engine) error

// WithRules replaces the default multiplier rules.
func WithRules(rules ...Rule) Option {
	return func(e *Engine) error {
		e.rules = rules
		return nil
	}
}

// WithPool attaches a worker pool of the given size used for large populations.
func WithPool(size int) Option {
	return func(e *Engine) error {
		if e.pool != nil {
			e.pool.Release()
			e.pool = nil
		}
		if size <= 0 {
			return nil
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return fmt.Errorf("create scoring pool: %w", err)
		}
		e.pool = pool
		return nil
	}
}

// Result is the outcome of one Match call.
type Result struct {
	Matches    []models.SuggestedMatch
	Considered int
	Eligible   int
	Rejected   map[string]int
	Weights    WeightVector
}

func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:   cfg,
		rules: DefaultRules(cfg),
	}
	for _, family := range cfg.BoardFamilies {
		set := stringSet(family, normalizeBoard)
		if len(set) > 1 {
			e.boardFamilies = append(e.boardFamilies, set)
		}
	}

	if cfg.PoolSize > 0 {
		opts = append([]Option{WithPool(cfg.PoolSize)}, opts...)
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			e.Release()
			return nil, err
		}
	}
	return e, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Release frees the worker pool, if any.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
		e.pool = nil
	}
}

// Match ranks population for req and returns at most topK matches (the configured
// default when topK <= 0). A nil request is treated as an empty one. An empty
// result is a valid outcome.
func (e *Engine) Match(req *models.MatchRequest, population []models.CandidateProfile, topK int) Result {
	if req == nil {
		req = &models.MatchRequest{}
	}
	if topK <= 0 {
		topK = e.cfg.TopK
	}

	eligible, rejected := filterPopulation(population, compileCriteria(req.NonNegotiableCriteria))

	view := newRequestView(&e.cfg, req)
	weights := buildWeights(&e.cfg, req.Purpose.Type, view.hits)

	result := Result{
		Matches:    []models.SuggestedMatch{},
		Considered: len(population),
		Eligible:   len(eligible),
		Rejected:   rejected,
		Weights:    weights,
	}
	if len(eligible) == 0 {
		return result
	}

	result.Matches = rank(e.scoreAll(view, weights, eligible), topK)
	return result
}

func (e *Engine) scoreAll(v *RequestView, w WeightVector, eligible []models.CandidateProfile) []scored {
	out := make([]scored, len(eligible))
	if e.pool == nil || len(eligible) < e.cfg.ParallelThreshold {
		for i := range eligible {
			out[i] = scored{index: i, match: e.score(v, w, &eligible[i])}
		}
		return out
	}

	var wg sync.WaitGroup
	for i := range eligible {
		i := i
		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()
			out[i] = scored{index: i, match: e.score(v, w, &eligible[i])}
		})
		if err != nil {
			wg.Done()
			out[i] = scored{index: i, match: e.score(v, w, &eligible[i])}
		}
	}
	wg.Wait()
	return out
}
