/*
Package player tracks which live connection belongs to which player and room.

A room is not stored on its own: it is the set of players sharing a room name,
and it disappears when the last of them leaves.
*/
package player

import (
	"slices"
	"strings"
	"sync"

	"triviaroom/internal/pkg/errs"
)

// Player is the identity bound to one connection. It never changes after creation.
type Player struct {
	// ID is the connection identifier.
	ID string `json:"id"`

	// PlayerName is the trimmed, lowercased display name.
	PlayerName string `json:"playerName"`

	// Room is the trimmed, lowercased room name.
	Room string `json:"room"`
}

// Normalize trims surrounding whitespace and lowercases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Registry is the set of joined players in insertion order.
type Registry struct {
	mu      sync.Mutex
	players []Player
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a player for connectionID. It fails with ErrInvalidParams when the
// name or room is empty and ErrPlayerNameInUse when the normalized name is already
// taken in the normalized room.
func (r *Registry) Add(connectionID, playerName, room string) (Player, error) {
	playerName = Normalize(playerName)
	room = Normalize(room)

	if playerName == "" || room == "" {
		return Player{}, errs.NewError(errs.ErrInvalidParams)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.players {
		if p.Room == room && p.PlayerName == playerName {
			return Player{}, errs.NewError(errs.ErrPlayerNameInUse)
		}
	}

	newPlayer := Player{ID: connectionID, PlayerName: playerName, Room: room}
	r.players = append(r.players, newPlayer)

	return newPlayer, nil
}

// Get returns the player registered under connectionID.
func (r *Registry) Get(connectionID string) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.players {
		if p.ID == connectionID {
			return p, nil
		}
	}

	return Player{}, errs.NewError(errs.ErrPlayerNotFound)
}

// ListRoom returns the players in room in join order. The result is never nil.
func (r *Registry) ListRoom(room string) []Player {
	room = Normalize(room)

	r.mu.Lock()
	defer r.mu.Unlock()

	members := make([]Player, 0)
	for _, p := range r.players {
		if p.Room == room {
			members = append(members, p)
		}
	}

	return members
}

// Remove deletes the player registered under connectionID. The boolean is false
// when nothing matched.
func (r *Registry) Remove(connectionID string) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.IndexFunc(r.players, func(p Player) bool {
		return p.ID == connectionID
	})
	if idx < 0 {
		return Player{}, false
	}

	removed := r.players[idx]
	r.players = slices.Delete(r.players, idx, idx+1)

	return removed, true
}

// Rooms returns the distinct rooms that currently have players, in order of first join.
func (r *Registry) Rooms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	rooms := make([]string, 0)
	for _, p := range r.players {
		if !slices.Contains(rooms, p.Room) {
			rooms = append(rooms, p.Room)
		}
	}

	return rooms
}
