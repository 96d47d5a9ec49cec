package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/smurf-frank/chorechart/internal/adapters/http/api"
	"github.com/smurf-frank/chorechart/internal/adapters/repository"
	service "github.com/smurf-frank/chorechart/internal/app"
	"github.com/smurf-frank/chorechart/pkg/logger"
)

func init() {
	_ = logger.Init()
}

// newTestServer starts a full stack on an in-memory store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc := service.New(service.WithStore(repository.NewMemStore()))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	server := api.NewServer(svc, svc)
	server.Register(context.Background(), mux, svc)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

type actorJSON struct {
	ID   int64  `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
}

type choreJSON struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

func createPerson(t *testing.T, base, name string) actorJSON {
	t.Helper()
	var created actorJSON
	status := doJSON(t, http.MethodPost, base+"/actors", map[string]any{
		"kind": "person", "name": name, "initials": "XX", "color": "#123456",
	}, &created)
	if status != http.StatusCreated {
		t.Fatalf("create person: status %d", status)
	}
	return created
}

func TestActorEndpoints(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts := newTestServer(t)

		Convey("When a person is created", func() {
			created := createPerson(t, ts.URL, "Alice")
			So(created.ID, ShouldBeGreaterThan, 0)
			So(created.Kind, ShouldEqual, "person")

			Convey("Then it appears in the listing", func() {
				var actors []actorJSON
				status := doJSON(t, http.MethodGet, ts.URL+"/actors", nil, &actors)
				So(status, ShouldEqual, http.StatusOK)
				So(actors, ShouldHaveLength, 1)
				So(actors[0].Name, ShouldEqual, "Alice")
			})

			Convey("Then it can be fetched and patched by id", func() {
				var fetched actorJSON
				status := doJSON(t, http.MethodGet, ts.URL+"/actors/1", nil, &fetched)
				So(status, ShouldEqual, http.StatusOK)
				So(fetched.Name, ShouldEqual, "Alice")

				var patched actorJSON
				status = doJSON(t, http.MethodPatch, ts.URL+"/actors/1", map[string]any{"name": "Alicia"}, &patched)
				So(status, ShouldEqual, http.StatusOK)
				So(patched.Name, ShouldEqual, "Alicia")
			})

			Convey("Then deleting it returns the row to 404", func() {
				status := doJSON(t, http.MethodDelete, ts.URL+"/actors/1", nil, nil)
				So(status, ShouldEqual, http.StatusOK)

				status = doJSON(t, http.MethodGet, ts.URL+"/actors/1", nil, nil)
				So(status, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the create request is malformed", func() {
			status := doJSON(t, http.MethodPost, ts.URL+"/actors", map[string]any{"kind": "person"}, nil)
			So(status, ShouldEqual, http.StatusBadRequest)

			status = doJSON(t, http.MethodPost, ts.URL+"/actors", map[string]any{"kind": "alien", "name": "Zorg"}, nil)
			So(status, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When an unknown id is requested", func() {
			status := doJSON(t, http.MethodGet, ts.URL+"/actors/99", nil, nil)
			So(status, ShouldEqual, http.StatusNotFound)

			status = doJSON(t, http.MethodGet, ts.URL+"/actors/zero", nil, nil)
			So(status, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestGroupEndpoints(t *testing.T) {
	Convey("Given a group and two people", t, func() {
		ts := newTestServer(t)

		alice := createPerson(t, ts.URL, "Alice")
		bob := createPerson(t, ts.URL, "Bob")

		var crew actorJSON
		status := doJSON(t, http.MethodPost, ts.URL+"/actors", map[string]any{
			"kind": "group", "name": "Crew", "initials": "CR", "color": "#7f8c8d",
		}, &crew)
		So(status, ShouldEqual, http.StatusCreated)

		membersURL := ts.URL + "/groups/3/members"

		Convey("When members are added over HTTP", func() {
			status := doJSON(t, http.MethodPost, membersURL, map[string]any{"member_id": alice.ID}, nil)
			So(status, ShouldEqual, http.StatusOK)

			status = doJSON(t, http.MethodPost, membersURL, map[string]any{"member_id": bob.ID}, nil)
			So(status, ShouldEqual, http.StatusOK)

			Convey("Then the member list resolves", func() {
				var members []actorJSON
				status := doJSON(t, http.MethodGet, membersURL, nil, &members)
				So(status, ShouldEqual, http.StatusOK)
				So(members, ShouldHaveLength, 2)
			})

			Convey("Then a self-reference is a conflict", func() {
				status := doJSON(t, http.MethodPost, membersURL, map[string]any{"member_id": crew.ID}, nil)
				So(status, ShouldEqual, http.StatusConflict)
			})

			Convey("Then the dry-run endpoint agrees without mutating", func() {
				var reply struct {
					Allowed bool `json:"allowed"`
				}
				url := ts.URL + "/groups/can-add?group_id=3&candidate_id=3"
				status := doJSON(t, http.MethodGet, url, nil, &reply)
				So(status, ShouldEqual, http.StatusOK)
				So(reply.Allowed, ShouldBeFalse)
			})

			Convey("Then a member can be removed by id", func() {
				status := doJSON(t, http.MethodDelete, membersURL+"/1", nil, nil)
				So(status, ShouldEqual, http.StatusOK)

				var members []actorJSON
				_ = doJSON(t, http.MethodGet, membersURL, nil, &members)
				So(members, ShouldHaveLength, 1)
			})

			Convey("Then nesting reports depth and height", func() {
				var reply struct {
					Depth  int `json:"depth"`
					Height int `json:"height"`
				}
				status := doJSON(t, http.MethodGet, ts.URL+"/groups/3/nesting", nil, &reply)
				So(status, ShouldEqual, http.StatusOK)
				So(reply.Depth, ShouldEqual, 1)
				So(reply.Height, ShouldEqual, 1)
			})
		})

		Convey("When membership targets a person", func() {
			url := ts.URL + "/groups/1/members"
			status := doJSON(t, http.MethodPost, url, map[string]any{"member_id": bob.ID}, nil)
			So(status, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestChoreEndpoints(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts := newTestServer(t)

		var dishes, laundry choreJSON
		status := doJSON(t, http.MethodPost, ts.URL+"/chores", map[string]any{"name": "Dishes"}, &dishes)
		So(status, ShouldEqual, http.StatusCreated)
		status = doJSON(t, http.MethodPost, ts.URL+"/chores", map[string]any{"name": "Laundry"}, &laundry)
		So(status, ShouldEqual, http.StatusCreated)

		Convey("Then chores list in creation order", func() {
			var chores []choreJSON
			status := doJSON(t, http.MethodGet, ts.URL+"/chores", nil, &chores)
			So(status, ShouldEqual, http.StatusOK)
			So(chores, ShouldHaveLength, 2)
			So(chores[0].Name, ShouldEqual, "Dishes")
		})

		Convey("When the order is reversed over HTTP", func() {
			status := doJSON(t, http.MethodPost, ts.URL+"/chores/reorder", map[string]any{
				"ids": []int64{laundry.ID, dishes.ID},
			}, nil)
			So(status, ShouldEqual, http.StatusOK)

			var chores []choreJSON
			_ = doJSON(t, http.MethodGet, ts.URL+"/chores", nil, &chores)
			So(chores[0].Name, ShouldEqual, "Laundry")
		})

		Convey("When a chore is renamed", func() {
			var patched choreJSON
			status := doJSON(t, http.MethodPatch, ts.URL+"/chores/1", map[string]any{"name": "Pots"}, &patched)
			So(status, ShouldEqual, http.StatusOK)
			So(patched.Name, ShouldEqual, "Pots")
		})

		Convey("When a chore is deleted", func() {
			status := doJSON(t, http.MethodDelete, ts.URL+"/chores/1", nil, nil)
			So(status, ShouldEqual, http.StatusOK)

			status = doJSON(t, http.MethodGet, ts.URL+"/chores/1", nil, nil)
			So(status, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the name is missing", func() {
			status := doJSON(t, http.MethodPost, ts.URL+"/chores", map[string]any{}, nil)
			So(status, ShouldEqual, http.StatusBadRequest)
		})
	})
}

type boardJSON struct {
	Cells map[string][]struct {
		ActorID int64  `json:"actor_id"`
		Name    string `json:"name"`
	} `json:"cells"`
	Days       []string `json:"days"`
	MaxMarkers int      `json:"max_markers_per_cell"`
}

func TestBoardEndpoints(t *testing.T) {
	Convey("Given people and a chore", t, func() {
		ts := newTestServer(t)

		alice := createPerson(t, ts.URL, "Alice")
		bob := createPerson(t, ts.URL, "Bob")
		carol := createPerson(t, ts.URL, "Carol")

		var dishes choreJSON
		_ = doJSON(t, http.MethodPost, ts.URL+"/chores", map[string]any{"name": "Dishes"}, &dishes)

		assign := func(actorID int64, day int) int {
			return doJSON(t, http.MethodPost, ts.URL+"/board/assign", map[string]any{
				"chore_id": dishes.ID, "day": day, "actor_id": actorID,
			}, nil)
		}

		Convey("When markers are assigned", func() {
			So(assign(alice.ID, 0), ShouldEqual, http.StatusOK)
			So(assign(bob.ID, 0), ShouldEqual, http.StatusOK)

			Convey("Then the third marker conflicts on capacity", func() {
				So(assign(carol.ID, 0), ShouldEqual, http.StatusConflict)
			})

			Convey("Then a duplicate marker conflicts", func() {
				So(assign(alice.ID, 0), ShouldEqual, http.StatusConflict)
			})

			Convey("Then the board snapshot shows the cell", func() {
				var board boardJSON
				status := doJSON(t, http.MethodGet, ts.URL+"/board", nil, &board)
				So(status, ShouldEqual, http.StatusOK)
				So(board.Days, ShouldHaveLength, 7)
				So(board.Days[0], ShouldEqual, "Mon")
				So(board.MaxMarkers, ShouldEqual, 2)
				So(board.Cells["1-0"], ShouldHaveLength, 2)
			})

			Convey("Then a marker can be removed", func() {
				status := doJSON(t, http.MethodDelete, ts.URL+"/board/assign", map[string]any{
					"chore_id": dishes.ID, "day": 0, "actor_id": alice.ID,
				}, nil)
				So(status, ShouldEqual, http.StatusOK)

				var board boardJSON
				_ = doJSON(t, http.MethodGet, ts.URL+"/board", nil, &board)
				So(board.Cells["1-0"], ShouldHaveLength, 1)
			})

			Convey("Then set collapses the cell to one marker", func() {
				status := doJSON(t, http.MethodPost, ts.URL+"/board/set", map[string]any{
					"chore_id": dishes.ID, "day": 0, "actor_id": carol.ID,
				}, nil)
				So(status, ShouldEqual, http.StatusOK)

				var board boardJSON
				_ = doJSON(t, http.MethodGet, ts.URL+"/board", nil, &board)
				So(board.Cells["1-0"], ShouldHaveLength, 1)
				So(board.Cells["1-0"][0].Name, ShouldEqual, "Carol")
			})

			Convey("Then a move to an open cell succeeds", func() {
				status := doJSON(t, http.MethodPost, ts.URL+"/board/move", map[string]any{
					"actor_id": alice.ID, "from_chore_id": dishes.ID, "from_day": 0,
					"to_chore_id": dishes.ID, "to_day": 3,
				}, nil)
				So(status, ShouldEqual, http.StatusOK)

				var board boardJSON
				_ = doJSON(t, http.MethodGet, ts.URL+"/board", nil, &board)
				So(board.Cells["1-3"], ShouldHaveLength, 1)
			})

			Convey("Then clearing the cell empties it", func() {
				status := doJSON(t, http.MethodPost, ts.URL+"/board/clear", map[string]any{
					"chore_id": dishes.ID, "day": 0,
				}, nil)
				So(status, ShouldEqual, http.StatusOK)

				var board boardJSON
				_ = doJSON(t, http.MethodGet, ts.URL+"/board", nil, &board)
				So(board.Cells["1-0"], ShouldBeEmpty)
			})

			Convey("Then clearing everything empties the board", func() {
				status := doJSON(t, http.MethodPost, ts.URL+"/board/clear", map[string]any{"all": true}, nil)
				So(status, ShouldEqual, http.StatusOK)

				var board boardJSON
				_ = doJSON(t, http.MethodGet, ts.URL+"/board", nil, &board)
				So(board.Cells, ShouldBeEmpty)
			})
		})

		Convey("When the request references missing rows or bad days", func() {
			status := doJSON(t, http.MethodPost, ts.URL+"/board/assign", map[string]any{
				"chore_id": 99, "day": 0, "actor_id": alice.ID,
			}, nil)
			So(status, ShouldEqual, http.StatusNotFound)

			status = doJSON(t, http.MethodPost, ts.URL+"/board/assign", map[string]any{
				"chore_id": dishes.ID, "day": 9, "actor_id": alice.ID,
			}, nil)
			So(status, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestRotationEndpoint(t *testing.T) {
	Convey("Given a populated group and a chore", t, func() {
		ts := newTestServer(t)

		alice := createPerson(t, ts.URL, "Alice")
		bob := createPerson(t, ts.URL, "Bob")

		var crew actorJSON
		_ = doJSON(t, http.MethodPost, ts.URL+"/actors", map[string]any{
			"kind": "group", "name": "Crew", "initials": "CR", "color": "#7f8c8d",
		}, &crew)

		membersURL := ts.URL + "/groups/3/members"
		_ = doJSON(t, http.MethodPost, membersURL, map[string]any{"member_id": alice.ID}, nil)
		_ = doJSON(t, http.MethodPost, membersURL, map[string]any{"member_id": bob.ID}, nil)

		var dishes choreJSON
		_ = doJSON(t, http.MethodPost, ts.URL+"/chores", map[string]any{"name": "Dishes"}, &dishes)

		Convey("When a rotation is requested with a day name", func() {
			status := doJSON(t, http.MethodPost, ts.URL+"/board/rotation", map[string]any{
				"chore_id": dishes.ID, "group_id": crew.ID,
				"start_member_id": alice.ID, "start_day": "Mon",
			}, nil)
			So(status, ShouldEqual, http.StatusOK)

			Convey("Then all seven cells of the row are filled", func() {
				var board boardJSON
				_ = doJSON(t, http.MethodGet, ts.URL+"/board", nil, &board)
				So(board.Cells, ShouldHaveLength, 7)
				So(board.Cells["1-0"][0].ActorID, ShouldEqual, alice.ID)
				So(board.Cells["1-1"][0].ActorID, ShouldEqual, bob.ID)
			})
		})

		Convey("When the start day is garbage", func() {
			status := doJSON(t, http.MethodPost, ts.URL+"/board/rotation", map[string]any{
				"chore_id": dishes.ID, "group_id": crew.ID,
				"start_member_id": alice.ID, "start_day": "Blursday",
			}, nil)
			So(status, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestSettingsEndpoints(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts := newTestServer(t)

		type settingsJSON struct {
			Values            map[string]string `json:"values"`
			WeekStartDay      string            `json:"week_start_day"`
			MaxMarkersPerCell int               `json:"max_markers_per_cell"`
		}

		Convey("Then the defaults read back", func() {
			var reply settingsJSON
			status := doJSON(t, http.MethodGet, ts.URL+"/settings", nil, &reply)
			So(status, ShouldEqual, http.StatusOK)
			So(reply.WeekStartDay, ShouldEqual, "Mon")
			So(reply.MaxMarkersPerCell, ShouldEqual, 2)
		})

		Convey("When settings are updated in one PUT", func() {
			var reply settingsJSON
			status := doJSON(t, http.MethodPut, ts.URL+"/settings", map[string]any{
				"week_start_day":       "Sat",
				"max_markers_per_cell": 50,
				"values":               map[string]string{"chart_title": "Our Chores"},
			}, &reply)
			So(status, ShouldEqual, http.StatusOK)

			Convey("Then the reply shows clamped, typed values", func() {
				So(reply.WeekStartDay, ShouldEqual, "Sat")
				So(reply.MaxMarkersPerCell, ShouldEqual, 32)
				So(reply.Values["chart_title"], ShouldEqual, "Our Chores")
			})
		})

		Convey("When the week start is invalid", func() {
			status := doJSON(t, http.MethodPut, ts.URL+"/settings", map[string]any{
				"week_start_day": "Blursday",
			}, nil)
			So(status, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStatsAndHealth(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts := newTestServer(t)

		Convey("Then stats report service state", func() {
			var stats map[string]any
			status := doJSON(t, http.MethodGet, ts.URL+"/stats", nil, &stats)
			So(status, ShouldEqual, http.StatusOK)
			So(stats["started"], ShouldEqual, true)
		})

		Convey("Then healthz serves the metrics registry", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})
}
