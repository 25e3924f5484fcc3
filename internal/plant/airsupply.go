package plant

// AirSupply couples the compressor and manifold. The two share state
// through the manifold pressure: pressure sets the compressor's load
// torque and delivered flow, and that flow feeds the manifold mass
// balance, so the pair must advance together in one call.
type AirSupply struct {
	Compressor *Compressor
	Manifold   *Manifold

	inletTemp float64 // compressor inlet temperature [K]
}

// NewAirSupply builds the pneumatic pair. The compressor draws ambient
// air at the manifold temperature.
func NewAirSupply(cp CompressorParams, mp ManifoldParams) (*AirSupply, error) {
	compressor, err := NewCompressor(cp)
	if err != nil {
		return nil, err
	}
	manifold, err := NewManifold(mp)
	if err != nil {
		return nil, err
	}
	return &AirSupply{
		Compressor: compressor,
		Manifold:   manifold,
		inletTemp:  mp.Temperature,
	}, nil
}

// Update advances the pair one step. Load torque and inlet mass flow
// are evaluated against the current manifold pressure before either
// model moves, then the rotor and the manifold advance in that order.
func (a *AirSupply) Update(motorTorque, dt, massFlowOut float64, discharging bool) {
	loadTorque := a.Compressor.LoadTorque(AmbientPressure, a.inletTemp, a.Manifold.Pressure)
	massFlowIn := a.Compressor.MassFlow(AmbientPressure, a.inletTemp, a.Manifold.Pressure)

	a.Compressor.Update(motorTorque, loadTorque, dt)
	a.Manifold.Update(massFlowIn, massFlowOut, dt, discharging)
}
