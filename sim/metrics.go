// Summarizes a finished run into the outcome numbers callers actually look
// at before plotting anything.

package sim

import "fmt"

// Metrics aggregates end-of-run statistics for final reporting.
type Metrics struct {
	Events           int     // number of recorded status-change events
	PeakInfected     int     // maximum simultaneous infections
	PeakTime         float64 // time of the first peak
	FinalSusceptible int
	FinalInfected    int
	FinalRecovered   int // zero for SIS runs
	AttackRate       float64 // fraction of the population ever infected
	EndTime          float64 // time of the last recorded event
}

// Summarize computes Metrics from a Result over a network of the given
// order.
func Summarize(res *Result, order int) *Metrics {
	m := &Metrics{}
	if res.Len() == 0 {
		return m
	}
	m.Events = res.Len()
	m.EndTime = res.Times[res.Len()-1]
	for idx, count := range res.I {
		if count > m.PeakInfected {
			m.PeakInfected = count
			m.PeakTime = res.Times[idx]
		}
	}
	last := res.Len() - 1
	m.FinalSusceptible = res.S[last]
	m.FinalInfected = res.I[last]
	if res.R != nil {
		m.FinalRecovered = res.R[last]
	}
	if order > 0 {
		m.AttackRate = float64(order-m.FinalSusceptible) / float64(order)
	}
	return m
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Events               : %d\n", m.Events)
	fmt.Printf("Peak Infected        : %d (t=%.4f)\n", m.PeakInfected, m.PeakTime)
	fmt.Printf("Final S/I/R          : %d/%d/%d\n", m.FinalSusceptible, m.FinalInfected, m.FinalRecovered)
	fmt.Printf("Attack Rate          : %.4f\n", m.AttackRate)
	fmt.Printf("End Time             : %.4f\n", m.EndTime)
}
