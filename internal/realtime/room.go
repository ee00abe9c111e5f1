package realtime

import (
	"strings"

	"github.com/google/uuid"
)

// RoomKey derives the canonical room key for a task type and team id.
// Both the subscribe path and the publish path must go through this
// derivation so keys match regardless of client-supplied casing or
// incidental whitespace.
func RoomKey(taskType, teamID string) string {
	return strings.ToUpper(strings.TrimSpace(taskType)) + " " + strings.ToUpper(strings.TrimSpace(teamID))
}

// directory is the two-sided room membership index: room key to member set
// and connection to joined room keys. It is owned by the hub goroutine and
// carries no locking of its own; both sides are mutated together so they
// can never disagree.
type directory struct {
	rooms map[string]map[uuid.UUID]struct{}
	conns map[uuid.UUID]map[string]struct{}
}

func newDirectory() *directory {
	return &directory{
		rooms: make(map[string]map[uuid.UUID]struct{}),
		conns: make(map[uuid.UUID]map[string]struct{}),
	}
}

// join adds id to the room, creating it lazily. Joining twice is a no-op.
func (d *directory) join(roomKey string, id uuid.UUID) {
	members, ok := d.rooms[roomKey]
	if !ok {
		members = make(map[uuid.UUID]struct{})
		d.rooms[roomKey] = members
	}
	members[id] = struct{}{}

	joined, ok := d.conns[id]
	if !ok {
		joined = make(map[string]struct{})
		d.conns[id] = joined
	}
	joined[roomKey] = struct{}{}
}

// leave removes id from the room. Leaving a room not joined is a no-op.
// Empty rooms are garbage-collected; an empty room has no observable
// behavior, so recreating it on the next join is equivalent.
func (d *directory) leave(roomKey string, id uuid.UUID) {
	if members, ok := d.rooms[roomKey]; ok {
		delete(members, id)
		if len(members) == 0 {
			delete(d.rooms, roomKey)
		}
	}
	if joined, ok := d.conns[id]; ok {
		delete(joined, roomKey)
		if len(joined) == 0 {
			delete(d.conns, id)
		}
	}
}

// leaveAll removes id from every room it is a member of.
func (d *directory) leaveAll(id uuid.UUID) {
	for roomKey := range d.conns[id] {
		if members, ok := d.rooms[roomKey]; ok {
			delete(members, id)
			if len(members) == 0 {
				delete(d.rooms, roomKey)
			}
		}
	}
	delete(d.conns, id)
}

// membersOf returns a point-in-time snapshot of the room's members.
func (d *directory) membersOf(roomKey string) []uuid.UUID {
	members := d.rooms[roomKey]
	if len(members) == 0 {
		return nil
	}
	snapshot := make([]uuid.UUID, 0, len(members))
	for id := range members {
		snapshot = append(snapshot, id)
	}
	return snapshot
}

// roomsOf returns a snapshot of the room keys id has joined.
func (d *directory) roomsOf(id uuid.UUID) []string {
	joined := d.conns[id]
	if len(joined) == 0 {
		return nil
	}
	snapshot := make([]string, 0, len(joined))
	for roomKey := range joined {
		snapshot = append(snapshot, roomKey)
	}
	return snapshot
}

func (d *directory) roomCount() int {
	return len(d.rooms)
}
