package hierarchy_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/smurf-frank/chorechart/internal/domain/hierarchy"
	"github.com/smurf-frank/chorechart/internal/domain/model"
)

// mapSource is an in-memory membership graph for validator tests.
type mapSource struct {
	actors map[int64]model.Actor
}

func newMapSource(actors ...model.Actor) *mapSource {
	src := &mapSource{actors: make(map[int64]model.Actor)}
	for _, a := range actors {
		src.actors[a.ID] = a
	}
	return src
}

func (s *mapSource) Actor(ctx context.Context, id int64) (model.Actor, bool) {
	a, ok := s.actors[id]
	return a, ok
}

func (s *mapSource) Members(ctx context.Context, groupID int64) []model.Actor {
	g, ok := s.actors[groupID]
	if !ok || !g.IsGroup() {
		return nil
	}
	var members []model.Actor
	for _, id := range g.MemberIDs() {
		if m, ok := s.actors[id]; ok {
			members = append(members, m)
		}
	}
	return members
}

func (s *mapSource) Parents(ctx context.Context, id int64) []model.Actor {
	var parents []model.Actor
	for _, a := range s.actors {
		if a.IsGroup() && a.HasMember(id) {
			parents = append(parents, a)
		}
	}
	return parents
}

func person(id int64, name string) model.Actor {
	return model.Actor{ID: id, Kind: model.KindPerson, Name: name}
}

func group(id int64, name string, memberIDs ...int64) model.Actor {
	return model.Actor{
		ID:    id,
		Kind:  model.KindGroup,
		Name:  name,
		Group: &model.GroupData{MemberIDs: memberIDs},
	}
}

func TestCanAddMember(t *testing.T) {
	ctx := context.Background()

	Convey("Given a flat graph of one group and two people", t, func() {
		src := newMapSource(
			group(1, "Crew", 2),
			person(2, "Alice"),
			person(3, "Bob"),
		)
		v := hierarchy.New(src)

		Convey("Then adding a new person is allowed", func() {
			So(v.CanAddMember(ctx, 1, 3), ShouldBeTrue)
		})

		Convey("Then a group cannot contain itself", func() {
			So(v.CanAddMember(ctx, 1, 1), ShouldBeFalse)
		})
	})

	Convey("Given a two-level chain Crew -> Inner", t, func() {
		src := newMapSource(
			group(1, "Crew", 2),
			group(2, "Inner", 3),
			person(3, "Alice"),
		)
		v := hierarchy.New(src)

		Convey("Then adding an ancestor to its descendant is a cycle", func() {
			So(v.CanAddMember(ctx, 2, 1), ShouldBeFalse)
		})

		Convey("Then the cycle check also catches indirect ancestry", func() {
			src.actors[3] = group(3, "Deep")
			So(v.CanAddMember(ctx, 3, 1), ShouldBeFalse)
		})
	})
}

func TestNestingBound(t *testing.T) {
	ctx := context.Background()

	Convey("Given four standalone groups", t, func() {
		src := newMapSource(
			group(1, "G1"),
			group(2, "G2"),
			group(3, "G3"),
			group(4, "G4"),
		)
		v := hierarchy.New(src)

		Convey("When a three-group chain is built edge by edge", func() {
			So(v.CanAddMember(ctx, 1, 2), ShouldBeTrue)
			src.actors[1] = group(1, "G1", 2)

			So(v.CanAddMember(ctx, 2, 3), ShouldBeTrue)
			src.actors[2] = group(2, "G2", 3)

			Convey("Then a fourth level is rejected at either end", func() {
				So(v.CanAddMember(ctx, 3, 4), ShouldBeFalse)

				// Hanging a new root above the chain fails the same way.
				So(v.CanAddMember(ctx, 4, 1), ShouldBeFalse)
			})

			Convey("And a sibling at an existing level is still allowed", func() {
				So(v.CanAddMember(ctx, 1, 4), ShouldBeTrue)
			})
		})
	})

	Convey("Given a validator with a larger nesting bound", t, func() {
		src := newMapSource(
			group(1, "G1", 2),
			group(2, "G2", 3),
			group(3, "G3"),
			group(4, "G4"),
		)
		v := hierarchy.New(src, hierarchy.WithMaxNesting(4))

		Convey("Then the fourth level fits", func() {
			So(v.CanAddMember(ctx, 3, 4), ShouldBeTrue)
		})
	})
}

func TestDepthAndHeight(t *testing.T) {
	ctx := context.Background()

	Convey("Given the chain G1 -> G2 -> Alice", t, func() {
		src := newMapSource(
			group(1, "G1", 2),
			group(2, "G2", 3),
			person(3, "Alice"),
		)
		v := hierarchy.New(src)

		Convey("Then depth counts group-only chains downwards", func() {
			So(v.GroupDepth(ctx, 1), ShouldEqual, 2)
			So(v.GroupDepth(ctx, 2), ShouldEqual, 1)
			So(v.GroupDepth(ctx, 3), ShouldEqual, 0)
		})

		Convey("Then height counts parent chains upwards", func() {
			So(v.GroupHeight(ctx, 1), ShouldEqual, 1)
			So(v.GroupHeight(ctx, 2), ShouldEqual, 2)
			So(v.GroupHeight(ctx, 3), ShouldEqual, 3)
		})
	})

	Convey("Given a corrupted graph containing a cycle", t, func() {
		src := newMapSource(
			group(1, "G1", 2),
			group(2, "G2", 1),
		)
		v := hierarchy.New(src)

		Convey("Then the walks still terminate", func() {
			So(v.GroupDepth(ctx, 1), ShouldEqual, 2)
			So(v.GroupHeight(ctx, 1), ShouldEqual, 2)
			So(v.IsDescendant(ctx, 1, 99), ShouldBeFalse)
		})
	})

	Convey("Given a group declaring a dangling member id", t, func() {
		src := newMapSource(
			group(1, "G1", 77),
		)
		v := hierarchy.New(src)

		Convey("Then the dangling id is skipped, not fatal", func() {
			So(v.GroupDepth(ctx, 1), ShouldEqual, 1)
			So(v.IsDescendant(ctx, 1, 77), ShouldBeFalse)
		})
	})
}
