// Package dipole implements the magnetostatic core: point magnets, rotating
// ferrite dipoles, the dipole field/torque model, and the Manager that owns
// an attached scene and advances it one tick at a time.
//
// Positions are fixed for every element; only ferrite orientation is dynamic.
// The Manager is an index-addressed arena: Attach returns a stable Handle and
// update order is always attach order.
//
// Manager implements [sim.System], so the same derivative drives both the
// standalone Tick path and the Simulator/Integrator path:
//
//	mgr := dipole.NewManager()
//	mgr.Attach(dipole.NewMagnet(geom.V(200, 150), math.Pi/2, 1))
//	mgr.Attach(dipole.NewFerrite(geom.V(200, 200)))
//	mgr.Tick(0.01)
package dipole
