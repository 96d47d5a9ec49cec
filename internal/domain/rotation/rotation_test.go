package rotation_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/smurf-frank/chorechart/internal/domain/model"
	"github.com/smurf-frank/chorechart/internal/domain/rotation"
)

func member(id int64, name string) model.Actor {
	return model.Actor{ID: id, Kind: model.KindPerson, Name: name}
}

func TestPlan(t *testing.T) {
	ctx := context.Background()
	planner := rotation.New()

	Convey("Given three members in scrambled insertion order", t, func() {
		members := []model.Actor{
			member(20, "Charlie"),
			member(10, "Alice"),
			member(30, "Bob"),
		}

		Convey("When planning from Alice on Monday", func() {
			slots, ok := planner.Plan(ctx, members, 10, model.Monday)

			Convey("Then the cycle covers all seven days", func() {
				So(ok, ShouldBeTrue)
				So(slots, ShouldHaveLength, 7)
				So(slots[0].Day, ShouldEqual, model.Monday)
				So(slots[6].Day, ShouldEqual, model.Sunday)
			})

			Convey("Then rotation order is name ascending, wrapping", func() {
				// Alice, Bob, Charlie, Alice, Bob, Charlie, Alice
				So(slots[0].ActorID, ShouldEqual, 10)
				So(slots[1].ActorID, ShouldEqual, 30)
				So(slots[2].ActorID, ShouldEqual, 20)
				So(slots[3].ActorID, ShouldEqual, 10)
				So(slots[6].ActorID, ShouldEqual, 10)
			})

			Convey("Then replanning yields the identical slots", func() {
				again, ok := planner.Plan(ctx, members, 10, model.Monday)
				So(ok, ShouldBeTrue)
				So(again, ShouldResemble, slots)
			})
		})

		Convey("When planning from Charlie mid-week", func() {
			slots, ok := planner.Plan(ctx, members, 20, model.Saturday)

			Convey("Then days wrap around the week boundary", func() {
				So(ok, ShouldBeTrue)
				So(slots[0].Day, ShouldEqual, model.Saturday)
				So(slots[0].ActorID, ShouldEqual, 20)
				So(slots[1].Day, ShouldEqual, model.Sunday)
				So(slots[1].ActorID, ShouldEqual, 10)
				So(slots[2].Day, ShouldEqual, model.Monday)
				So(slots[2].ActorID, ShouldEqual, 30)
			})
		})

		Convey("When the input slice order is shuffled", func() {
			shuffled := []model.Actor{members[2], members[0], members[1]}
			a, okA := planner.Plan(ctx, members, 10, model.Monday)
			b, okB := planner.Plan(ctx, shuffled, 10, model.Monday)

			Convey("Then the plan does not change", func() {
				So(okA, ShouldBeTrue)
				So(okB, ShouldBeTrue)
				So(b, ShouldResemble, a)
			})
		})
	})

	Convey("Given two members", t, func() {
		members := []model.Actor{member(1, "Alice"), member(2, "Bob")}

		Convey("When planning a full week", func() {
			slots, ok := planner.Plan(ctx, members, 2, model.Monday)

			Convey("Then members alternate and the week ends on the starter", func() {
				So(ok, ShouldBeTrue)
				So(slots[0].ActorID, ShouldEqual, 2)
				So(slots[1].ActorID, ShouldEqual, 1)
				So(slots[2].ActorID, ShouldEqual, 2)
				So(slots[6].ActorID, ShouldEqual, 2)
			})
		})
	})

	Convey("Given degenerate inputs", t, func() {
		members := []model.Actor{member(1, "Alice")}

		Convey("Then an empty member list aborts the plan", func() {
			slots, ok := planner.Plan(ctx, nil, 1, model.Monday)
			So(ok, ShouldBeFalse)
			So(slots, ShouldBeNil)
		})

		Convey("Then an absent start member aborts the plan", func() {
			slots, ok := planner.Plan(ctx, members, 42, model.Monday)
			So(ok, ShouldBeFalse)
			So(slots, ShouldBeNil)
		})

		Convey("Then an invalid start day aborts the plan", func() {
			slots, ok := planner.Plan(ctx, members, 1, model.Day(9))
			So(ok, ShouldBeFalse)
			So(slots, ShouldBeNil)
		})

		Convey("Then a single member owns every day", func() {
			slots, ok := planner.Plan(ctx, members, 1, model.Wednesday)
			So(ok, ShouldBeTrue)
			for _, s := range slots {
				So(s.ActorID, ShouldEqual, 1)
			}
		})
	})
}
