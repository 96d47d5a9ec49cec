package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/smurf-frank/chorechart/internal/adapters/repository"
	"github.com/smurf-frank/chorechart/internal/domain/model"
)

func newSQLiteStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := repository.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreActors(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh sqlite store", t, func() {
		store := newSQLiteStore(t)

		Convey("When a group with a payload is inserted", func() {
			id, err := store.InsertActor(ctx, model.Actor{
				Kind:     model.KindGroup,
				Name:     "Crew",
				Initials: "CR",
				Color:    "#123456",
				Group:    &model.GroupData{MemberIDs: []int64{4, 5}, ShowAsMarker: true},
			})
			So(err, ShouldBeNil)
			So(id, ShouldBeGreaterThan, 0)

			Convey("Then the payload round-trips through the metadata column", func() {
				a, err := store.GetActor(ctx, id)
				So(err, ShouldBeNil)
				So(a.Kind, ShouldEqual, model.KindGroup)
				So(a.Group, ShouldNotBeNil)
				So(a.Group.MemberIDs, ShouldResemble, []int64{4, 5})
				So(a.Group.ShowAsMarker, ShouldBeTrue)
			})

			Convey("Then a partial patch merges with the stored payload", func() {
				name := "Kitchen Crew"
				show := false
				err := store.UpdateActor(ctx, id, model.ActorPatch{
					Name:  &name,
					Group: &model.GroupPatch{ShowAsMarker: &show},
				})
				So(err, ShouldBeNil)

				a, err := store.GetActor(ctx, id)
				So(err, ShouldBeNil)
				So(a.Name, ShouldEqual, "Kitchen Crew")
				So(a.Group.ShowAsMarker, ShouldBeFalse)
				So(a.Group.MemberIDs, ShouldResemble, []int64{4, 5})
			})
		})

		Convey("When a person is inserted", func() {
			id, err := store.InsertActor(ctx, model.Actor{Kind: model.KindPerson, Name: "Alice"})
			So(err, ShouldBeNil)

			Convey("Then it reads back without a group payload", func() {
				a, err := store.GetActor(ctx, id)
				So(err, ShouldBeNil)
				So(a.Group, ShouldBeNil)
			})
		})

		Convey("When an unknown kind is stored", func() {
			id, err := store.InsertActor(ctx, model.Actor{Kind: "robot_arm", Name: "Arm"})
			So(err, ShouldBeNil)

			Convey("Then the kind round-trips untouched", func() {
				a, err := store.GetActor(ctx, id)
				So(err, ShouldBeNil)
				So(a.Kind, ShouldEqual, model.ActorKind("robot_arm"))
			})
		})

		Convey("Then unknown ids report ErrNotFound", func() {
			_, err := store.GetActor(ctx, 4242)
			So(err, ShouldEqual, repository.ErrNotFound)

			err = store.UpdateActor(ctx, 4242, model.ActorPatch{})
			So(err, ShouldEqual, repository.ErrNotFound)
		})
	})
}

func TestSQLiteStoreChoresAndAssignments(t *testing.T) {
	ctx := context.Background()

	Convey("Given a sqlite store with chores and assignments", t, func() {
		store := newSQLiteStore(t)

		dishes, err := store.InsertChore(ctx, model.Chore{Name: "Dishes", SortOrder: 2})
		So(err, ShouldBeNil)
		laundry, err := store.InsertChore(ctx, model.Chore{Name: "Laundry", SortOrder: 1})
		So(err, ShouldBeNil)

		_, err = store.InsertAssignment(ctx, dishes, model.Monday, 10)
		So(err, ShouldBeNil)
		_, err = store.InsertAssignment(ctx, dishes, model.Monday, 20)
		So(err, ShouldBeNil)
		_, err = store.InsertAssignment(ctx, laundry, model.Sunday, 10)
		So(err, ShouldBeNil)

		Convey("Then chores list by sort order and the max order is right", func() {
			chores, err := store.Chores(ctx)
			So(err, ShouldBeNil)
			So(chores, ShouldHaveLength, 2)
			So(chores[0].ID, ShouldEqual, laundry)

			maxOrder, err := store.MaxChoreOrder(ctx)
			So(err, ShouldBeNil)
			So(maxOrder, ShouldEqual, 2)
		})

		Convey("Then cells keep insertion order and day indexes survive", func() {
			ids, err := store.Cell(ctx, dishes, model.Monday)
			So(err, ShouldBeNil)
			So(ids, ShouldResemble, []int64{10, 20})

			rows, err := store.Assignments(ctx)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 3)
			So(rows[2].Day, ShouldEqual, model.Sunday)
		})

		Convey("Then scoped deletes behave like the in-memory backend", func() {
			So(store.DeleteAssignment(ctx, dishes, model.Monday, 10), ShouldBeNil)
			ids, _ := store.Cell(ctx, dishes, model.Monday)
			So(ids, ShouldResemble, []int64{20})

			So(store.DeleteAssignmentsByActor(ctx, 10), ShouldBeNil)
			rows, _ := store.Assignments(ctx)
			So(rows, ShouldHaveLength, 1)

			So(store.DeleteAllAssignments(ctx), ShouldBeNil)
			rows, _ = store.Assignments(ctx)
			So(rows, ShouldBeEmpty)
		})

		Convey("Then deleting a chore leaves its assignments to the cascade above", func() {
			So(store.DeleteChore(ctx, dishes), ShouldBeNil)

			_, err := store.GetChore(ctx, dishes)
			So(err, ShouldEqual, repository.ErrNotFound)

			rows, _ := store.Assignments(ctx)
			So(rows, ShouldHaveLength, 3)
		})
	})
}

func TestSQLiteStoreSettings(t *testing.T) {
	ctx := context.Background()

	Convey("Given a sqlite store", t, func() {
		store := newSQLiteStore(t)

		Convey("Then settings upsert and read back", func() {
			So(store.SetSetting(ctx, "week_start_day", "Mon"), ShouldBeNil)
			So(store.SetSetting(ctx, "week_start_day", "Sat"), ShouldBeNil)

			v, err := store.GetSetting(ctx, "week_start_day")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "Sat")

			m, err := store.Settings(ctx)
			So(err, ShouldBeNil)
			So(m["week_start_day"], ShouldEqual, "Sat")
		})

		Convey("Then missing keys report ErrNotFound", func() {
			_, err := store.GetSetting(ctx, "missing")
			So(err, ShouldEqual, repository.ErrNotFound)
		})
	})
}

func TestSQLiteStorePersistence(t *testing.T) {
	ctx := context.Background()

	Convey("Given a database file written by one store instance", t, func() {
		path := filepath.Join(t.TempDir(), "persist.db")

		store, err := repository.NewSQLiteStore(path)
		So(err, ShouldBeNil)

		id, err := store.InsertActor(ctx, model.Actor{Kind: model.KindPerson, Name: "Alice"})
		So(err, ShouldBeNil)
		So(store.Close(), ShouldBeNil)

		Convey("When the file is reopened", func() {
			reopened, err := repository.NewSQLiteStore(path)
			So(err, ShouldBeNil)
			defer func() { _ = reopened.Close() }()

			Convey("Then the rows are still there", func() {
				a, err := reopened.GetActor(ctx, id)
				So(err, ShouldBeNil)
				So(a.Name, ShouldEqual, "Alice")
			})
		})
	})
}
