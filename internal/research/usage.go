package research

import (
	"sync"

	"github.com/halcyon-research/equity-cli/internal/cost"
	"github.com/halcyon-research/equity-cli/pkg/anthropic"
)

// UsageAccumulator aggregates token consumption across a run. The pipeline
// passes one accumulator through every stage, so per-run accounting never
// leaks between concurrent runs.
type UsageAccumulator struct {
	mu       sync.Mutex
	calc     *cost.Calculator
	perStage map[Stage]anthropic.TokenUsage
	total    anthropic.TokenUsage
	fetches  int
	cost     float64
}

// NewUsageAccumulator creates an accumulator priced by the given calculator.
func NewUsageAccumulator(calc *cost.Calculator) *UsageAccumulator {
	return &UsageAccumulator{
		calc:     calc,
		perStage: make(map[Stage]anthropic.TokenUsage),
	}
}

// Record adds one model call's usage under the stage that made it.
func (a *UsageAccumulator) Record(stage Stage, model string, usage anthropic.TokenUsage) {
	a.mu.Lock()
	defer a.mu.Unlock()

	stageUsage := a.perStage[stage]
	stageUsage.Add(usage)
	a.perStage[stage] = stageUsage
	a.total.Add(usage)
	if a.calc != nil {
		a.cost += a.calc.Claude(model, usage)
	}
}

// RecordFetch counts one market data request. Requests are priced at the
// amortized per-request rate of the data plan.
func (a *UsageAccumulator) RecordFetch() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.fetches++
	if a.calc != nil {
		a.cost += a.calc.AlphaVantageRequest()
	}
}

// Fetches returns the number of market data requests made.
func (a *UsageAccumulator) Fetches() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fetches
}

// Total returns the aggregate usage across all stages.
func (a *UsageAccumulator) Total() anthropic.TokenUsage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}

// Stage returns the usage recorded for one stage.
func (a *UsageAccumulator) Stage(stage Stage) anthropic.TokenUsage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.perStage[stage]
}

// PerStage returns a copy of the per-stage breakdown. Stages that made no
// model calls are absent.
func (a *UsageAccumulator) PerStage() map[Stage]anthropic.TokenUsage {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[Stage]anthropic.TokenUsage, len(a.perStage))
	for stage, usage := range a.perStage {
		out[stage] = usage
	}
	return out
}

// EstimatedCost returns the accumulated cost in USD.
func (a *UsageAccumulator) EstimatedCost() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cost
}
