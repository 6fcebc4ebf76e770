package main

import (
	"github.com/pthm-cable/hexaco/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Agent behavior
			{Name: "follow_probability", Path: "agent.follow_probability", Min: 0.0, Max: 1.0, Default: 0.5},
			{Name: "withdraw_rate", Path: "agent.withdraw_rate", Min: 1.0, Max: 50.0, Default: 5.0},
			{Name: "deposit_food", Path: "agent.deposit.food", Min: 0.5, Max: 50.0, Default: 10.0},
			{Name: "deposit_home", Path: "agent.deposit.home", Min: 0.5, Max: 50.0, Default: 10.0},
			{Name: "deposit_decay", Path: "agent.deposit_decay", Min: 0.0, Max: 5.0, Default: 0.5},
			// Scent decay (absolute policy)
			{Name: "food_scent_delta", Path: "scent.kinds[food].delta", Min: 0.001, Max: 0.2, Default: 0.02},
			{Name: "home_scent_delta", Path: "scent.kinds[home].delta", Min: 0.001, Max: 0.2, Default: 0.02},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct. Scent kinds
// are switched to the absolute policy so the deltas take effect.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	cfg.Agent.FollowProbability = clamped[0]
	cfg.Agent.WithdrawRate = clamped[1]
	cfg.Agent.Deposit.Food = clamped[2]
	cfg.Agent.Deposit.Home = clamped[3]
	cfg.Agent.DepositDecay = clamped[4]

	for j, name := range []string{"food", "home"} {
		k := &cfg.Scent.Kinds[cfg.Derived.KindIndex[name]]
		k.Policy = config.PolicyAbsolute
		k.Delta = clamped[5+j]
	}
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Agent.FollowProbability,
		cfg.Agent.WithdrawRate,
		cfg.Agent.Deposit.Food,
		cfg.Agent.Deposit.Home,
		cfg.Agent.DepositDecay,
		cfg.Scent.Kinds[cfg.Derived.KindIndex["food"]].Delta,
		cfg.Scent.Kinds[cfg.Derived.KindIndex["home"]].Delta,
	}
}
