package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/hexaco/config"
	"github.com/pthm-cable/hexaco/telemetry"
)

func TestComputeQuality(t *testing.T) {
	w := func(deliveries ...int) []telemetry.WindowStats {
		out := make([]telemetry.WindowStats, len(deliveries))
		for i, d := range deliveries {
			out[i].Deliveries = d
		}
		return out
	}

	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		want    float64
	}{
		{"only warmup", w(5, 5, 5), 0},
		{"all delivering", w(0, 0, 0, 1, 2, 3), 1},
		{"half delivering", w(9, 9, 9, 1, 0, 4, 0), 0.5},
		{"none delivering", w(9, 9, 9, 0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeQuality(tt.windows); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("computeQuality = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Map.Radius = 3
	cfg.Population.Agents = 10
	cfg = cfg.Clone()

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 200, []int64{1, 2}, cfg)
	a := fe.Evaluate(pv.DefaultVector())
	b := fe.Evaluate(pv.DefaultVector())
	if a != b {
		t.Errorf("fitness %v then %v for the same vector", a, b)
	}
	if a > 0 {
		t.Errorf("fitness = %v, want <= 0", a)
	}
}
