package thermal

import (
	"fmt"
	"sort"
)

// Handle identifies a Simulation within an Arena.
type Handle int

// Arena owns a set of simulations, one per simulated component. It is
// owned by a single caller and is not synchronized.
type Arena struct {
	sims map[Handle]*Simulation
	next Handle
}

func NewArena() *Arena {
	return &Arena{sims: make(map[Handle]*Simulation)}
}

func (a *Arena) Add(s *Simulation) Handle {
	h := a.next
	a.next++
	a.sims[h] = s
	return h
}

func (a *Arena) Get(h Handle) (*Simulation, error) {
	s, ok := a.sims[h]
	if !ok {
		return nil, fmt.Errorf("thermal: unknown simulation handle %d", h)
	}
	return s, nil
}

func (a *Arena) Remove(h Handle) {
	delete(a.sims, h)
}

func (a *Arena) Len() int {
	return len(a.sims)
}

// Handles returns the live handles in ascending order.
func (a *Arena) Handles() []Handle {
	hs := make([]Handle, 0, len(a.sims))
	for h := range a.sims {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	return hs
}

// SteadyAll runs SimulateToSteady on every simulation in handle order.
func (a *Arena) SteadyAll(maxSteps int, tol float64) map[Handle]SteadyResult {
	out := make(map[Handle]SteadyResult, len(a.sims))
	for _, h := range a.Handles() {
		out[h] = a.sims[h].SimulateToSteady(maxSteps, tol)
	}
	return out
}
