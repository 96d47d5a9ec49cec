// Package rotation computes deterministic round-robin assignment plans.
package rotation

import (
	"context"
	"sort"

	"github.com/smurf-frank/chorechart/internal/domain/model"
)

// Slot pairs one day of the cycle with the actor that owns it.
type Slot struct {
	Day     model.Day
	ActorID int64
}

// Planner turns a group's member list into a full-week rotation plan.
type Planner interface {
	// Plan returns one slot per day of the 7-day cycle, starting at
	// startDay with the member identified by startMemberID and advancing
	// both modulo their lengths. Members repeat once exhausted.
	//
	// The second return is false, with no slots, when the member list is
	// empty or startMemberID is not in it.
	Plan(ctx context.Context, members []model.Actor, startMemberID int64, startDay model.Day) ([]Slot, bool)
}

type roundRobinPlanner struct{}

// New constructs a round-robin planner.
func New() Planner {
	return &roundRobinPlanner{}
}

func (p *roundRobinPlanner) Plan(ctx context.Context, members []model.Actor, startMemberID int64, startDay model.Day) ([]Slot, bool) {
	if len(members) == 0 || !startDay.Valid() {
		return nil, false
	}

	// Rotation order is display-name ascending, case-sensitive. Insertion
	// order must not leak into the plan.
	sorted := append([]model.Actor(nil), members...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	start := -1
	for i, m := range sorted {
		if m.ID == startMemberID {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, false
	}

	slots := make([]Slot, model.WeekLength)
	for i := 0; i < model.WeekLength; i++ {
		slots[i] = Slot{
			Day:     model.Day((int(startDay) + i) % model.WeekLength),
			ActorID: sorted[(start+i)%len(sorted)].ID,
		}
	}
	return slots, true
}
