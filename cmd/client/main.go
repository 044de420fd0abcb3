package main // Entry point package for the seat agent CLI

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/seatmate/seatmate/internal/client"
	"github.com/seatmate/seatmate/internal/client/api"
	"github.com/seatmate/seatmate/internal/model"
	"github.com/seatmate/seatmate/internal/queue"
)

// The agent is the command-line stand-in for the classroom browser: one
// profile file per student, holding a stable identity and the cached
// seat assignment that gets reconciled against the server.
func main() {
	_ = godotenv.Load()

	var (
		server  = flag.String("server", envOr("SEATMATE_SERVER", "http://localhost:8080"), "base URL of the seatmate server")
		profile = flag.String("profile", envOr("SEATMATE_PROFILE", defaultProfilePath()), "path to the local profile database")
		gender  = flag.String("gender", "male", "seat partition to claim in (male or female)")
		student = flag.String("student", "", "optional 8-digit student ID")
	)
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		fmt.Fprintln(os.Stderr, "usage: seatmate-client [flags] claim|release|status|watch")
		flag.PrintDefaults()
		os.Exit(2)
	}

	store, err := client.OpenLocalStore(*profile)
	if err != nil {
		log.Fatalf("open profile %s: %v", *profile, err)
	}
	defer func() { _ = store.Close() }()

	agent := client.NewAgent(api.New(*server), store)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "claim":
		runClaim(ctx, agent, *gender, *student)
	case "release":
		runRelease(ctx, agent)
	case "status":
		runStatus(ctx, agent)
	case "watch":
		runWatch(ctx, agent)
	default:
		log.Fatalf("unknown command %q", cmd)
	}
}

func runClaim(ctx context.Context, agent *client.Agent, gender, student string) {
	g := model.Gender(gender)
	if !g.Valid() {
		log.Fatalf("gender must be male or female, got %q", gender)
	}
	seat, err := agent.Claim(ctx, g, student)
	if err != nil {
		if client.IsUnavailable(err) {
			log.Fatalf("server unreachable: %v", err)
		}
		log.Fatalf("claim failed: %v", err)
	}
	fmt.Printf("seat %d (%s)\n", seat, gender)
}

func runRelease(ctx context.Context, agent *client.Agent) {
	released, err := agent.ResetMine(ctx)
	if err != nil {
		log.Fatalf("release failed: %v", err)
	}
	fmt.Printf("released %d seat(s)\n", released)
}

func runStatus(ctx context.Context, agent *client.Agent) {
	snap, err := agent.Refresh(ctx)
	if err != nil {
		log.Fatalf("refresh failed: %v", err)
	}
	fmt.Printf("identity: %s\n", agent.Identity())
	fmt.Printf("male seats taken:   %d\n", len(snap.Male))
	fmt.Printf("female seats taken: %d\n", len(snap.Female))
	for _, a := range append(snap.Male, snap.Female...) {
		if a.Occupant == agent.Identity() {
			fmt.Printf("my seat: %d (%s)\n", a.SeatNumber, a.Gender)
			return
		}
	}
	fmt.Println("my seat: none")
}

// runWatch reconciles once, then follows the broadcast exchange and
// re-reconciles on every event until interrupted.
func runWatch(ctx context.Context, agent *client.Agent) {
	if _, err := agent.Refresh(ctx); err != nil {
		log.Printf("initial refresh failed: %v", err)
	}
	log.Printf("watching as %s; press Ctrl-C to stop", agent.Identity())
	err := queue.StartConsumer(ctx, queue.BrokerURL(), func(env queue.Envelope) {
		log.Printf("event: %s", env.Kind)
		agent.HandleEvent(ctx, env)
	})
	if err != nil && ctx.Err() == nil {
		log.Fatalf("watch ended: %v", err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "seatmate.db"
	}
	return filepath.Join(home, ".seatmate", "profile.db")
}
