// Package plant provides the physical models of the hybrid power
// source.
//
//   - [FuelCell]: electrochemical polarization, membrane hydration, and thermal dynamics
//   - [Battery]: state-of-charge integration with a nonlinear open-circuit voltage
//   - [Compressor]: rotor speed dynamics with a simplified compressor map
//   - [Manifold]: lumped-volume pressure dynamics with leak and vent relief
//   - [AirSupply]: the coupled compressor/manifold pneumatic pair
//
// Each model owns its state and advances it with a first-order
// explicit Euler step per Update call; range invariants (hydration,
// SoC, speed, pressure) are clamped inside the update rather than
// reported as errors. Construction rejects parameters that would make
// an update divide by zero or run backwards in time.
//
// Sensor views of the models are plain value snapshots, see
// [ReadFuelCell] and [ReadBattery].
package plant
