// Package hierarchy validates the group membership graph.
//
// The graph points from a group to its declared members, which may be
// groups themselves. Every membership mutation must pass CanAddMember
// before it is committed; the checks are pre-conditions, never repairs.
package hierarchy

import (
	"context"

	"github.com/smurf-frank/chorechart/internal/domain/model"
	"github.com/smurf-frank/chorechart/pkg/metrics"
)

// Default nesting bound: the longest group-only chain may hold 3 nodes.
const defaultMaxNesting = 3

// MemberSource is the view of the membership graph the validator walks.
// Implementations resolve declared member ids to actors and must skip ids
// that no longer resolve (a tolerated degraded state after an interrupted
// cascade delete).
type MemberSource interface {
	// Actor returns the actor for id, or false if it does not exist.
	Actor(ctx context.Context, id int64) (model.Actor, bool)

	// Members returns the resolved direct members of a group, in declared
	// order. Non-groups and unknown ids yield an empty slice.
	Members(ctx context.Context, groupID int64) []model.Actor

	// Parents returns the group actors whose member list contains id.
	Parents(ctx context.Context, id int64) []model.Actor
}

// Validator decides whether membership edges may be added and measures
// group nesting.
type Validator interface {
	// CanAddMember reports whether candidateID may become a member of
	// groupID without a self-loop, a cycle, or exceeding the nesting bound.
	CanAddMember(ctx context.Context, groupID, candidateID int64) bool

	// IsDescendant reports whether targetID is reachable through the
	// member lists hanging off parentID.
	IsDescendant(ctx context.Context, parentID, targetID int64) bool

	// GroupDepth is the longest group-only chain from id downwards.
	// Non-groups have depth 0; a group with no group members has depth 1.
	GroupDepth(ctx context.Context, id int64) int

	// GroupHeight is the longest group chain leading to id from above.
	// An actor no group contains has height 1.
	GroupHeight(ctx context.Context, id int64) int
}

type graphValidator struct {
	src        MemberSource
	maxNesting int
}

// Option applies a configuration option to the validator.
type Option func(*graphValidator)

// WithMaxNesting overrides the maximum group-only chain length.
func WithMaxNesting(n int) Option {
	return func(v *graphValidator) {
		if n > 0 {
			v.maxNesting = n
		}
	}
}

// New constructs a validator over the given membership source.
func New(src MemberSource, opts ...Option) Validator {
	v := &graphValidator{
		src:        src,
		maxNesting: defaultMaxNesting,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// CanAddMember runs the three checks in short-circuit order: self-loop,
// cycle, nesting bound.
func (v *graphValidator) CanAddMember(ctx context.Context, groupID, candidateID int64) bool {
	if groupID == candidateID {
		metrics.RecordValidationRejected("self_reference")
		return false
	}
	if v.IsDescendant(ctx, candidateID, groupID) {
		metrics.RecordValidationRejected("cycle")
		return false
	}
	// Adding the edge joins the chain above groupID to the chain below
	// candidateID; the combined node count must stay within the bound, so
	// a height-1 parent over a depth-2 member (3 nodes) is still legal.
	if v.GroupHeight(ctx, groupID)+v.GroupDepth(ctx, candidateID) > v.maxNesting {
		metrics.RecordValidationRejected("nesting_depth")
		return false
	}
	return true
}

func (v *graphValidator) IsDescendant(ctx context.Context, parentID, targetID int64) bool {
	return v.isDescendant(ctx, parentID, targetID, map[int64]bool{})
}

// isDescendant walks declared members depth-first. The visited set makes
// the walk terminate even if a storage-layer inconsistency has introduced
// a cycle the validator would normally have prevented.
func (v *graphValidator) isDescendant(ctx context.Context, parentID, targetID int64, visited map[int64]bool) bool {
	if visited[parentID] {
		return false
	}
	visited[parentID] = true

	for _, m := range v.src.Members(ctx, parentID) {
		if m.ID == targetID {
			return true
		}
		if m.IsGroup() && v.isDescendant(ctx, m.ID, targetID, visited) {
			return true
		}
	}
	return false
}

func (v *graphValidator) GroupDepth(ctx context.Context, id int64) int {
	return v.groupDepth(ctx, id, map[int64]bool{})
}

func (v *graphValidator) groupDepth(ctx context.Context, id int64, visited map[int64]bool) int {
	if visited[id] {
		return 0
	}
	visited[id] = true

	actor, ok := v.src.Actor(ctx, id)
	if !ok || !actor.IsGroup() {
		return 0
	}

	deepest := 0
	for _, m := range v.src.Members(ctx, id) {
		if !m.IsGroup() {
			continue
		}
		if d := v.groupDepth(ctx, m.ID, visited); d > deepest {
			deepest = d
		}
	}
	return 1 + deepest
}

func (v *graphValidator) GroupHeight(ctx context.Context, id int64) int {
	return v.groupHeight(ctx, id, map[int64]bool{})
}

func (v *graphValidator) groupHeight(ctx context.Context, id int64, visited map[int64]bool) int {
	if visited[id] {
		return 0
	}
	visited[id] = true

	highest := 0
	for _, p := range v.src.Parents(ctx, id) {
		if h := v.groupHeight(ctx, p.ID, visited); h > highest {
			highest = h
		}
	}
	return 1 + highest
}
