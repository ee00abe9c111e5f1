package realtime

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/B-Paul-JC/task-manager-server/internal/domain"
)

// DefaultGeneratorInterval matches the cadence of the original exerciser.
const DefaultGeneratorInterval = 3 * time.Second

// TaskEventPublisher is the fan-out sink the generator feeds.
type TaskEventPublisher interface {
	RelayTaskMutation(teamID, taskType string, event Event)
}

// Generator manufactures a plausible task-status event on every tick and
// pushes it through the broadcast engine. It carries no task data of its
// own; it exists to exercise the fan-out path.
type Generator struct {
	publisher TaskEventPublisher
	clock     clockwork.Clock
	teamID    string
	interval  time.Duration
}

// NewGenerator creates a generator publishing to the room derived from
// teamID and a randomly chosen status. A non-positive interval falls back
// to DefaultGeneratorInterval.
func NewGenerator(publisher TaskEventPublisher, clock clockwork.Clock, teamID string, interval time.Duration) *Generator {
	if interval <= 0 {
		interval = DefaultGeneratorInterval
	}
	return &Generator{
		publisher: publisher,
		clock:     clock,
		teamID:    teamID,
		interval:  interval,
	}
}

// Run ticks until ctx is cancelled. Blocks; run it in its own goroutine.
func (g *Generator) Run(ctx context.Context) {
	slog.Info("Synthetic task event generator started", "team_id", g.teamID, "interval", g.interval)
	ticker := g.clock.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Synthetic task event generator stopped")
			return
		case <-ticker.Chan():
			g.tick()
		}
	}
}

func (g *Generator) tick() {
	status := domain.TaskStatuses[rand.IntN(len(domain.TaskStatuses))]
	isNew := rand.IntN(2) == 0
	g.publisher.RelayTaskMutation(g.teamID, status, TasksUpdateEvent(isNew, strings.ToLower(status)))
}
