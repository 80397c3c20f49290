package domain

import (
	"time"

	"github.com/google/uuid"
)

// Simulation kinds.
const (
	KindImpact     = "impact"
	KindDeflection = "deflection"
)

// SimulationEvent records one completed calculation for the audit stream.
// Exactly one input/result pair is set, matching Kind.
type SimulationEvent struct {
	ID              string            `json:"id"`
	Kind            string            `json:"kind"`
	ImpactInput     *ImpactInput      `json:"impact_input,omitempty"`
	Impact          *ImpactResult     `json:"impact,omitempty"`
	DeflectionInput *DeflectionInput  `json:"deflection_input,omitempty"`
	Deflection      *DeflectionResult `json:"deflection,omitempty"`
	CalculatedAt    time.Time         `json:"calculated_at"`
}

// NewImpactEvent wraps an impact calculation in a SimulationEvent.
func NewImpactEvent(in ImpactInput, result ImpactResult) SimulationEvent {
	return SimulationEvent{
		ID:           uuid.NewString(),
		Kind:         KindImpact,
		ImpactInput:  &in,
		Impact:       &result,
		CalculatedAt: clock.Now().UTC(),
	}
}

// NewDeflectionEvent wraps a deflection calculation in a SimulationEvent.
func NewDeflectionEvent(in DeflectionInput, result DeflectionResult) SimulationEvent {
	return SimulationEvent{
		ID:              uuid.NewString(),
		Kind:            KindDeflection,
		DeflectionInput: &in,
		Deflection:      &result,
		CalculatedAt:    clock.Now().UTC(),
	}
}
