package allocation

import (
	"cmp"
	"context"
	"slices"

	"kitchen-allocation-api/internal/models"
)

// LoadBand is a coarse description of how busy a cook is
type LoadBand string

const (
	LoadFree        LoadBand = "free"
	LoadCanTakeMore LoadBand = "can take more"
	LoadFairlyBusy  LoadBand = "fairly busy"
	LoadVeryBusy    LoadBand = "very busy"
)

// Upper bounds, in minutes, of the can-take-more and fairly-busy bands
const (
	canTakeMoreMinutes = 4 * 60
	fairlyBusyMinutes  = 6 * 60
)

// CookWorkload is one cook's booked work across every shift and event
type CookWorkload struct {
	Cook         models.Cook `json:"cook"`
	TaskCount    int         `json:"taskCount"`
	TotalMinutes int         `json:"totalMinutes"`
	Band         LoadBand    `json:"band"`
}

// BandFor maps booked minutes to a load band
func BandFor(minutes int) LoadBand {
	switch {
	case minutes <= 0:
		return LoadFree
	case minutes <= canTakeMoreMinutes:
		return LoadCanTakeMore
	case minutes <= fairlyBusyMinutes:
		return LoadFairlyBusy
	default:
		return LoadVeryBusy
	}
}

// CookWorkloads returns the workload of every known cook, busiest first
func (e *Engine) CookWorkloads(ctx context.Context) []CookWorkload {
	cooks := e.knownCooks(ctx)

	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]CookWorkload, 0, len(cooks))
	for _, c := range cooks {
		w := CookWorkload{Cook: c}
		for _, t := range e.tasks {
			if t.HasCook() && *t.CookID == c.ID {
				w.TaskCount++
				w.TotalMinutes += t.DurationMinutes
			}
		}
		w.Band = BandFor(w.TotalMinutes)
		out = append(out, w)
	}
	slices.SortStableFunc(out, func(a, b CookWorkload) int {
		return cmp.Compare(b.TotalMinutes, a.TotalMinutes)
	})
	return out
}
