package seedcli

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/smurf-frank/chorechart/pkg/logger"
)

// Demo palette cycled over created people.
var palette = []string{
	"#0084ff", "#ff4d4d", "#2ecc71", "#f39c12",
	"#9b59b6", "#1abc9c", "#e67e22", "#34495e",
}

var choreNames = []string{
	"Dishes", "Laundry", "Vacuuming", "Trash",
	"Cooking", "Groceries", "Bathroom", "Plants",
}

type actorResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type choreResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type boardResponse struct {
	Cells map[string][]struct {
		ActorID int64 `json:"actor_id"`
	} `json:"cells"`
	Days []string `json:"days"`
}

// Run seeds the target service and verifies the board afterwards.
func Run(ctx context.Context, config *Config) error {
	log := logger.Get().Named("seed")
	client := newHTTPClient(config.BaseURL, config.Timeout)

	people := make([]int64, 0, config.People)
	for i := 0; i < config.People; i++ {
		var created actorResponse
		body := map[string]interface{}{
			"kind":     "person",
			"name":     fmt.Sprintf("Person %d", i+1),
			"initials": fmt.Sprintf("P%d", i+1),
			"color":    palette[i%len(palette)],
		}
		status, err := client.post(ctx, "/actors", body, &created)
		if err != nil {
			return err
		}
		if status != http.StatusCreated {
			return fmt.Errorf("create person: unexpected status %d", status)
		}
		if config.Verbose {
			log.Info(ctx, "person created", logger.Int64("id", created.ID))
		}
		people = append(people, created.ID)
	}

	var group actorResponse
	status, err := client.post(ctx, "/actors", map[string]interface{}{
		"kind":           "group",
		"name":           "Everyone",
		"initials":       "EV",
		"color":          "#7f8c8d",
		"show_as_marker": false,
	}, &group)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("create group: unexpected status %d", status)
	}

	for _, id := range people {
		path := fmt.Sprintf("/groups/%d/members", group.ID)
		status, err := client.post(ctx, path, map[string]interface{}{"member_id": id}, nil)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("add member %d: unexpected status %d", id, status)
		}
	}
	log.Info(ctx, "group assembled",
		logger.Int64("groupId", group.ID),
		logger.Int("members", len(people)),
	)

	chores := make([]int64, 0, config.Chores)
	for i := 0; i < config.Chores; i++ {
		var created choreResponse
		body := map[string]interface{}{"name": choreNames[i%len(choreNames)]}
		status, err := client.post(ctx, "/chores", body, &created)
		if err != nil {
			return err
		}
		if status != http.StatusCreated {
			return fmt.Errorf("create chore: unexpected status %d", status)
		}
		chores = append(chores, created.ID)
	}

	if config.Rotate && len(chores) > 0 && len(people) > 0 {
		status, err := client.post(ctx, "/board/rotation", map[string]interface{}{
			"chore_id":        chores[0],
			"group_id":        group.ID,
			"start_member_id": people[0],
			"start_day":       "Mon",
		}, nil)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("rotation: unexpected status %d", status)
		}
		log.Info(ctx, "rotation applied", logger.Int64("choreId", chores[0]))
	}

	return verify(ctx, client, config, len(chores), config.Rotate)
}

// verify reads the board back and checks the seeded shape.
func verify(ctx context.Context, client *HTTPClient, config *Config, choreCount int, rotated bool) error {
	log := logger.Get().Named("seed")

	var board boardResponse
	status, err := client.get(ctx, "/board", &board)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("read board: unexpected status %d", status)
	}
	if len(board.Days) != 7 {
		return fmt.Errorf("expected 7 days, got %d", len(board.Days))
	}
	if rotated && choreCount > 0 && len(board.Cells) != 7 {
		return fmt.Errorf("expected 7 rotated cells, got %d", len(board.Cells))
	}

	log.Info(ctx, "seed verified",
		logger.Int("cells", len(board.Cells)),
		logger.Int("chores", choreCount),
	)
	return nil
}

// ShowHelp prints usage information for the seeding tool.
func ShowHelp() {
	os.Stdout.WriteString(`Chore Board Seeder
==================

Populates a running chore board service with demo people, a group, chores
and an optional rotation, then verifies the board reads back.

Usage:
  go run cmd/seed-board/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9090")
  -people int
        Number of people to create (default 3)
  -chores int
        Number of chores to create (default 4)
  -rotate
        Apply a seven day rotation to the first chore (default true)
  -timeout duration
        HTTP request timeout (default 10s)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with defaults
  go run cmd/seed-board/main.go

  # Seed a bigger household without rotation
  go run cmd/seed-board/main.go -people 6 -chores 8 -rotate=false
`)
}
