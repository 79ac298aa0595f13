package core

import "sort"

// Session is the (username, room) binding attached to a connection after a
// successful join. A connection has at most one session at a time; a repeat
// join replaces it wholesale.
type Session struct {
	Username string
	Room     string
}

// Registry maps live connection ids to their sessions. It is the single
// authoritative source of truth for who is in which room. Rooms are never
// materialized: membership is always derived from this map at read time.
//
// The registry is owned by the hub goroutine and is not safe for concurrent
// use on its own.
type Registry struct {
	sessions map[string]Session
}

// NewRegistry returns an empty registry. State is process-local and lost on
// restart; clients are expected to rejoin.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]Session)}
}

// Set stores or replaces the session for a connection.
func (r *Registry) Set(connID string, s Session) {
	r.sessions[connID] = s
}

// Get returns the session for a connection, if any.
func (r *Registry) Get(connID string) (Session, bool) {
	s, ok := r.sessions[connID]
	return s, ok
}

// Delete removes the session for a connection. Unknown ids are a no-op.
func (r *Registry) Delete(connID string) {
	delete(r.sessions, connID)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return len(r.sessions)
}

// MembersOf derives the roster for a room by scanning live sessions.
// Usernames are sorted so the roster is deterministic. O(n) in total
// session count, which is fine for chat-sized rooms.
func (r *Registry) MembersOf(room string) []string {
	members := make([]string, 0)
	for _, s := range r.sessions {
		if s.Room == room {
			members = append(members, s.Username)
		}
	}
	sort.Strings(members)
	return members
}
