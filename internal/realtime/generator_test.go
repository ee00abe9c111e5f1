package realtime

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMutation struct {
	teamID   string
	taskType string
	event    Event
}

// recordingPublisher captures RelayTaskMutation calls.
type recordingPublisher struct {
	mu        sync.Mutex
	mutations []recordedMutation
}

func (r *recordingPublisher) RelayTaskMutation(teamID, taskType string, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations = append(r.mutations, recordedMutation{teamID, taskType, event})
}

func (r *recordingPublisher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.mutations)
}

func (r *recordingPublisher) all() []recordedMutation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedMutation(nil), r.mutations...)
}

func waitForMutations(t *testing.T, publisher *recordingPublisher, expected int) {
	t.Helper()
	for range 200 {
		if publisher.count() >= expected {
			return
		}
		time.Sleep(time.Millisecond)
	}
	require.GreaterOrEqual(t, publisher.count(), expected)
}

func TestGenerator_PublishesOnEveryTick(t *testing.T) {
	publisher := &recordingPublisher{}
	clock := clockwork.NewFakeClock()
	gen := NewGenerator(publisher, clock, "l5wu7opeq4h843e19g", 3*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gen.Run(ctx)

	clock.BlockUntil(1)
	clock.Advance(3 * time.Second)
	waitForMutations(t, publisher, 1)

	clock.BlockUntil(1)
	clock.Advance(3 * time.Second)
	waitForMutations(t, publisher, 2)
}

func TestGenerator_EventShape(t *testing.T) {
	publisher := &recordingPublisher{}
	clock := clockwork.NewFakeClock()
	gen := NewGenerator(publisher, clock, "l5wu7opeq4h843e19g", 3*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gen.Run(ctx)

	clock.BlockUntil(1)
	clock.Advance(3 * time.Second)
	waitForMutations(t, publisher, 1)

	m := publisher.all()[0]
	assert.Equal(t, "l5wu7opeq4h843e19g", m.teamID)
	assert.Contains(t, []string{"COMPLETED", "IN PROGRESS", "PENDING", "POSTPONED", "CANCELLED"}, m.taskType)
	assert.Equal(t, EventTasksUpdate, m.event.Name)

	payload, ok := m.event.Data.(tasksUpdatePayload)
	require.True(t, ok)
	assert.Equal(t, strings.ToLower(m.taskType), payload.Type)
}

func TestGenerator_StopsOnContextCancel(t *testing.T) {
	publisher := &recordingPublisher{}
	clock := clockwork.NewFakeClock()
	gen := NewGenerator(publisher, clock, "team1", 3*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		gen.Run(ctx)
		close(done)
	}()

	clock.BlockUntil(1)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("generator did not stop after context cancel")
	}
	assert.Equal(t, 0, publisher.count())
}

func TestGenerator_DefaultsNonPositiveInterval(t *testing.T) {
	gen := NewGenerator(&recordingPublisher{}, clockwork.NewFakeClock(), "team1", 0)
	assert.Equal(t, DefaultGeneratorInterval, gen.interval)

	gen = NewGenerator(&recordingPublisher{}, clockwork.NewFakeClock(), "team1", -time.Second)
	assert.Equal(t, DefaultGeneratorInterval, gen.interval)
}
