// Package model contains domain models passed between layers.
package model

// ActorKind tags the variant payload carried by an Actor.
type ActorKind string

// Known actor kinds. The set is open; stores must round-trip kinds they
// do not recognize.
const (
	KindPerson  ActorKind = "person"
	KindGroup   ActorKind = "group"
	KindAIAgent ActorKind = "ai_agent"
	KindWebhook ActorKind = "webhook"
)

// GroupData is the kind-specific payload for group actors.
type GroupData struct {
	MemberIDs    []int64 `json:"member_ids"`
	ShowAsMarker bool    `json:"show_as_marker"`
}

// Actor is any entity that can be assigned a chore: a person, a group of
// actors, or a future kind. Group carries the payload for KindGroup and is
// nil for every other kind.
type Actor struct {
	ID       int64      `json:"id"`
	Kind     ActorKind  `json:"kind"`
	Name     string     `json:"name"`
	Initials string     `json:"initials"`
	Color    string     `json:"color"`
	Group    *GroupData `json:"group,omitempty"`
}

// IsGroup reports whether the actor is a group.
func (a Actor) IsGroup() bool {
	return a.Kind == KindGroup
}

// MemberIDs returns the declared member ids for a group actor, in declared
// order. Non-group actors and groups without a payload return nil.
func (a Actor) MemberIDs() []int64 {
	if !a.IsGroup() || a.Group == nil {
		return nil
	}
	return a.Group.MemberIDs
}

// HasMember reports whether id appears in the actor's declared members.
func (a Actor) HasMember(id int64) bool {
	for _, m := range a.MemberIDs() {
		if m == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand actors across layer
// boundaries without sharing the member slice.
func (a Actor) Clone() Actor {
	c := a
	if a.Group != nil {
		g := *a.Group
		g.MemberIDs = append([]int64(nil), a.Group.MemberIDs...)
		c.Group = &g
	}
	return c
}

// GroupPatch is a partial update of a group payload. Nil fields are left
// untouched; the payload is merged, never replaced wholesale.
type GroupPatch struct {
	MemberIDs    *[]int64
	ShowAsMarker *bool
}

// ActorPatch is a partial update of an actor. Only non-nil fields are
// applied.
type ActorPatch struct {
	Name     *string
	Initials *string
	Color    *string
	Group    *GroupPatch
}

// Apply merges the patch into a copy of the actor and returns it. A group
// patch on an actor without a payload allocates one, so toggling
// ShowAsMarker never erases MemberIDs and vice versa.
func (p ActorPatch) Apply(a Actor) Actor {
	out := a.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Initials != nil {
		out.Initials = *p.Initials
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	if p.Group != nil {
		if out.Group == nil {
			out.Group = &GroupData{}
		}
		if p.Group.MemberIDs != nil {
			out.Group.MemberIDs = append([]int64(nil), (*p.Group.MemberIDs)...)
		}
		if p.Group.ShowAsMarker != nil {
			out.Group.ShowAsMarker = *p.Group.ShowAsMarker
		}
	}
	return out
}

// Chore is a recurring task shown as one board row.
type Chore struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// ChorePatch is a partial update of a chore.
type ChorePatch struct {
	Name      *string
	SortOrder *int
}

// Apply merges the patch into a copy of the chore and returns it.
func (p ChorePatch) Apply(c Chore) Chore {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.SortOrder != nil {
		c.SortOrder = *p.SortOrder
	}
	return c
}

// Marker is the actor summary attached to one board cell, in the shape
// board reads return to callers.
type Marker struct {
	ActorID  int64     `json:"actor_id"`
	Name     string    `json:"name"`
	Initials string    `json:"initials"`
	Color    string    `json:"color"`
	Kind     ActorKind `json:"kind"`
}

// CellKey addresses one (chore, day) board cell.
type CellKey struct {
	ChoreID int64 `json:"chore_id"`
	Day     Day   `json:"day"`
}
