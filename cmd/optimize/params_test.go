package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/hexaco/config"
)

func TestParamVector_NormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i, spec := range pv.Specs {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("%s: %v -> %v", spec.Name, raw[i], back[i])
		}
	}
}

func TestParamVector_DefaultsInBounds(t *testing.T) {
	pv := NewParamVector()
	for _, spec := range pv.Specs {
		if spec.Default < spec.Min || spec.Default > spec.Max {
			t.Errorf("%s default %v outside [%v, %v]", spec.Name, spec.Default, spec.Min, spec.Max)
		}
	}
}

func TestParamVector_Clamp(t *testing.T) {
	pv := NewParamVector()
	v := pv.DefaultVector()
	v[0] = -1
	v[1] = 1000

	got := pv.Clamp(v)
	if got[0] != pv.Specs[0].Min {
		t.Errorf("low value clamped to %v, want %v", got[0], pv.Specs[0].Min)
	}
	if got[1] != pv.Specs[1].Max {
		t.Errorf("high value clamped to %v, want %v", got[1], pv.Specs[1].Max)
	}
	if v[0] != -1 {
		t.Error("Clamp modified its input")
	}
}

func TestParamVector_ApplyExtract(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	want := []float64{0.8, 7, 12, 15, 1.5, 0.05, 0.01}

	pv.ApplyToConfig(cfg, want)
	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", spec.Name, got[i], want[i])
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}
}

func TestParamVector_DefaultsMatchConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if got[i] != spec.Default {
			t.Errorf("%s: config default %v, param default %v", spec.Name, got[i], spec.Default)
		}
	}
}
