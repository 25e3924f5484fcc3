package plant

import (
	"math"
	"testing"
)

func newTestCompressor(t *testing.T) *Compressor {
	t.Helper()
	c, err := NewCompressor(DefaultCompressorParams())
	if err != nil {
		t.Fatalf("NewCompressor: %v", err)
	}
	return c
}

func newTestManifold(t *testing.T) *Manifold {
	t.Helper()
	m, err := NewManifold(DefaultManifoldParams())
	if err != nil {
		t.Fatalf("NewManifold: %v", err)
	}
	return m
}

func TestNewCompressorRejectsBadInertia(t *testing.T) {
	for _, inertia := range []float64{0, -0.1} {
		params := DefaultCompressorParams()
		params.Inertia = inertia
		if _, err := NewCompressor(params); err == nil {
			t.Errorf("inertia %f should be rejected", inertia)
		}
	}
}

func TestCompressorSpinUp(t *testing.T) {
	c := newTestCompressor(t)

	c.Update(10.0, 0, 0.5)

	// dω = dt * T / J = 0.5 * 10 / 0.1
	if math.Abs(c.Speed-50.0) > 1e-9 {
		t.Errorf("speed after spin-up: got %f, want 50", c.Speed)
	}
}

func TestCompressorSpeedNeverNegative(t *testing.T) {
	c := newTestCompressor(t)

	c.Update(0, 100.0, 0.5)
	if c.Speed != 0 {
		t.Errorf("speed should floor at 0, got %f", c.Speed)
	}

	c.Speed = 5.0
	c.Update(0, 100.0, 0.5)
	if c.Speed != 0 {
		t.Errorf("overbraked rotor should floor at 0, got %f", c.Speed)
	}
}

func TestCompressorMassFlowDecaysWithPressureRatio(t *testing.T) {
	c := newTestCompressor(t)
	c.Speed = 100.0

	atUnity := c.MassFlow(AmbientPressure, 298.15, AmbientPressure)
	atDouble := c.MassFlow(AmbientPressure, 298.15, 2*AmbientPressure)

	if atUnity <= atDouble {
		t.Errorf("flow should fall as pressure ratio rises: %f vs %f", atUnity, atDouble)
	}
	want := 100.0 * 0.001 // speed * k at ratio 1
	if math.Abs(atUnity-want) > 1e-12 {
		t.Errorf("flow at unity ratio: got %f, want %f", atUnity, want)
	}
}

func TestCompressorLoadTorqueProportionalToFlow(t *testing.T) {
	c := newTestCompressor(t)
	c.Speed = 80.0

	flow := c.MassFlow(AmbientPressure, 298.15, 1.5*AmbientPressure)
	torque := c.LoadTorque(AmbientPressure, 298.15, 1.5*AmbientPressure)

	if math.Abs(torque-50.0*flow) > 1e-12 {
		t.Errorf("load torque should be 50x mass flow: got %f for flow %f", torque, flow)
	}
}

func TestNewManifoldRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ManifoldParams)
	}{
		{"zero volume", func(p *ManifoldParams) { p.Volume = 0 }},
		{"negative volume", func(p *ManifoldParams) { p.Volume = -1 }},
		{"zero temperature", func(p *ManifoldParams) { p.Temperature = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultManifoldParams()
			tt.mutate(&params)
			if _, err := NewManifold(params); err == nil {
				t.Error("expected construction error")
			}
		})
	}
}

func TestManifoldInitialPressureFloored(t *testing.T) {
	params := DefaultManifoldParams()
	params.InitialPressure = 50000.0
	m, err := NewManifold(params)
	if err != nil {
		t.Fatalf("NewManifold: %v", err)
	}
	if m.Pressure != AmbientPressure {
		t.Errorf("initial pressure should floor at ambient, got %f", m.Pressure)
	}
}

func TestManifoldPressureNeverBelowAmbient(t *testing.T) {
	m := newTestManifold(t)

	for i := 0; i < 20; i++ {
		m.Update(0, 10.0, 0.5, true)
	}
	if m.Pressure < AmbientPressure {
		t.Errorf("pressure should floor at ambient, got %f", m.Pressure)
	}
}

func TestManifoldMassBalanceRaisesPressure(t *testing.T) {
	m := newTestManifold(t)

	m.Update(0.05, 0, 0.5, false)

	if m.Pressure <= AmbientPressure {
		t.Errorf("net inflow should raise pressure above ambient, got %f", m.Pressure)
	}
}

func TestManifoldReliefOnlyAboveTarget(t *testing.T) {
	params := DefaultManifoldParams()

	t.Run("below target only the leak acts", func(t *testing.T) {
		below, err := NewManifold(params)
		if err != nil {
			t.Fatalf("NewManifold: %v", err)
		}
		below.Pressure = 200000.0

		below.Update(0, 0, 0.5, true)

		// dpLeak = 0.05 * (200000 - 101325) * 0.5
		want := 200000.0 - 0.05*(200000.0-AmbientPressure)*0.5
		if math.Abs(below.Pressure-want) > 1e-6 {
			t.Errorf("below-target pressure: got %f, want %f", below.Pressure, want)
		}
	})

	t.Run("above target discharge relieves harder", func(t *testing.T) {
		charging, err := NewManifold(params)
		if err != nil {
			t.Fatalf("NewManifold: %v", err)
		}
		discharging, err := NewManifold(params)
		if err != nil {
			t.Fatalf("NewManifold: %v", err)
		}
		charging.Pressure = 500000.0
		discharging.Pressure = 500000.0

		charging.Update(0, 0, 0.5, false)
		discharging.Update(0, 0, 0.5, true)

		if discharging.Pressure >= charging.Pressure {
			t.Errorf("discharge-mode relief should drop pressure harder: %f vs %f",
				discharging.Pressure, charging.Pressure)
		}
	})
}

func TestAirSupplyCouplesPair(t *testing.T) {
	air, err := NewAirSupply(DefaultCompressorParams(), DefaultManifoldParams())
	if err != nil {
		t.Fatalf("NewAirSupply: %v", err)
	}

	// First step spins the rotor from standstill; the flow fed to the
	// manifold is evaluated before the rotor moves, so pressure holds.
	air.Update(10.0, 0.5, 0, true)
	if air.Compressor.Speed <= 0 {
		t.Fatalf("compressor should spin up, got speed %f", air.Compressor.Speed)
	}
	if air.Manifold.Pressure != AmbientPressure {
		t.Errorf("first step should not move pressure, got %f", air.Manifold.Pressure)
	}

	// Second step delivers the flow produced at the new speed.
	air.Update(10.0, 0.5, 0, true)
	if air.Manifold.Pressure <= AmbientPressure {
		t.Errorf("pressure should rise once the rotor is spinning, got %f", air.Manifold.Pressure)
	}
}
