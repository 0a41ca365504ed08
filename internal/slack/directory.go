package slack

import "sync"

// UserDirectory is the injected lookup capability for workspace users.
// Lookups are read-only; UpsertUser is the only mutation path and is
// invoked explicitly by the event handlers that carry user records.
type UserDirectory interface {
	FindUserByID(id string) (User, bool)
	UpsertUser(u User)
}

// RoomDirectory is the injected lookup capability for channels and groups.
type RoomDirectory interface {
	FindRoomByID(id string) (Room, bool)
	UpsertRoom(r Room)
}

// MemoryUserDirectory is a mutex-guarded in-memory UserDirectory.
// Concurrent upserts to the same id are last-write-wins.
type MemoryUserDirectory struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryUserDirectory creates an empty user directory.
func NewMemoryUserDirectory() *MemoryUserDirectory {
	return &MemoryUserDirectory{users: make(map[string]User)}
}

// FindUserByID looks up a user without side effects.
func (d *MemoryUserDirectory) FindUserByID(id string) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	return u, ok
}

// UpsertUser creates or replaces a user entry.
func (d *MemoryUserDirectory) UpsertUser(u User) {
	if u.ID == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

// Len returns the number of known users.
func (d *MemoryUserDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

// MemoryRoomDirectory is a mutex-guarded in-memory RoomDirectory.
type MemoryRoomDirectory struct {
	mu    sync.RWMutex
	rooms map[string]Room
}

// NewMemoryRoomDirectory creates an empty room directory.
func NewMemoryRoomDirectory() *MemoryRoomDirectory {
	return &MemoryRoomDirectory{rooms: make(map[string]Room)}
}

// FindRoomByID looks up a room without side effects.
func (d *MemoryRoomDirectory) FindRoomByID(id string) (Room, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.rooms[id]
	return r, ok
}

// UpsertRoom creates or replaces a room entry.
func (d *MemoryRoomDirectory) UpsertRoom(r Room) {
	if r.ID == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rooms[r.ID] = r
}

// Len returns the number of known rooms.
func (d *MemoryRoomDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}

// userFromPayload builds a User from an embedded user or bot record.
func userFromPayload(m map[string]interface{}) User {
	var u User
	u.ID, _ = m["id"].(string)
	u.Name, _ = m["name"].(string)
	u.RealName, _ = m["real_name"].(string)
	return u
}

// roomFromPayload builds a Room from an embedded channel record.
func roomFromPayload(m map[string]interface{}) Room {
	var r Room
	r.ID, _ = m["id"].(string)
	r.Name, _ = m["name"].(string)
	return r
}
