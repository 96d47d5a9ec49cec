package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/smurf-frank/chorechart/internal/seedcli"
	"github.com/smurf-frank/chorechart/pkg/logger"
)

// Default configuration constants.
const (
	defaultPeople     = 3
	defaultChores     = 4
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 2 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9090", "Base URL of the service")
		people  = flag.Int("people", defaultPeople, "Number of people to create")
		chores  = flag.Int("chores", defaultChores, "Number of chores to create")
		rotate  = flag.Bool("rotate", true, "Apply a seven day rotation to the first chore")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seedcli.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &seedcli.Config{
		BaseURL: *baseURL,
		People:  *people,
		Chores:  *chores,
		Rotate:  *rotate,
		Timeout: *timeout,
		Verbose: *verbose,
	}

	if err := seedcli.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
