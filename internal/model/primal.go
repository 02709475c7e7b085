package model

// Primal is the solved schedule: commitment, startup indicators, dispatch
// and the served block demand trajectory.
//
// On and Started are [N][T]; Dispatch is [N][T] in MW; ServedMW has length T.
// Started marks the startup-status indicators as reported by the solver; it
// is not guaranteed to equal the 0->1 commitment transition (see the
// startup-linking option on the model builder).
type Primal struct {
	On       [][]bool
	Started  [][]bool
	Dispatch [][]float64
	ServedMW []float64

	Objective float64
}

// TotalDispatchMW sums unit dispatch at timestep t.
func (p *Primal) TotalDispatchMW(t int) float64 {
	total := 0.0
	for i := range p.Dispatch {
		total += p.Dispatch[i][t]
	}
	return total
}

// UnitsOn counts committed units at timestep t.
func (p *Primal) UnitsOn(t int) int {
	n := 0
	for i := range p.On {
		if p.On[i][t] {
			n++
		}
	}
	return n
}

// Startups counts startup indicators for unit i over the horizon.
func (p *Primal) Startups(i int) int {
	n := 0
	for _, started := range p.Started[i] {
		if started {
			n++
		}
	}
	return n
}
