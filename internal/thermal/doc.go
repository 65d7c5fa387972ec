// Package thermal models thermal expansion and one-dimensional heat
// diffusion in machine components.
//
// [Expansion] is the linear relation α·L·ΔT. [Simulation] integrates the
// heat equation along a bar with an explicit finite-difference scheme:
//
//	sim, _ := thermal.NewSimulation(100, 21, "steel")
//	sim.SetBoundary(30, 20)
//	res := sim.SimulateToSteady(10000, 1e-4)
//	growth := sim.ExpansionProfile("steel", 20).Total
//
// # Thread Safety
//
// A Simulation is mutated in place by Step and is NOT safe for concurrent
// use. Each simulated component should own its own instance; an [Arena]
// holds several of them under integer handles for one caller.
package thermal
