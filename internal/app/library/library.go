/*
Package library contains owned-game sets and the intersection fold across participants.

A GameSet is produced fresh for each participant and never mutated once built; Intersect
returns a new set so the running intersection is an explicit fold rather than shared state.
*/
package library

import (
	"context"
	"errors"
	"maps"
	"slices"

	"commongames/internal/app/user"
)

// ErrNoVisibleLibrary signals that a participant's library is private or empty.
// It is a soft outcome: the participant is skipped and the run continues.
var ErrNoVisibleLibrary = errors.New("library: no visible library")

// GameID is the store's application id. It is an opaque key.
type GameID int64

// GameSet is an immutable set of GameID.
type GameSet struct {
	ids map[GameID]struct{}
}

// NewGameSet builds a set from ids, collapsing duplicates.
func NewGameSet(ids ...GameID) GameSet {
	m := make(map[GameID]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return GameSet{ids: m}
}

// Len returns the number of games in the set.
func (s GameSet) Len() int {
	return len(s.ids)
}

// Contains reports whether id is in the set.
func (s GameSet) Contains(id GameID) bool {
	_, ok := s.ids[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (s GameSet) Sorted() []GameID {
	return slices.Sorted(maps.Keys(s.ids))
}

// Equal reports whether both sets hold exactly the same ids.
func (s GameSet) Equal(other GameSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for id := range s.ids {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// Intersect returns a new set with the ids present in both acc and next.
// The result is never larger than either input.
func Intersect(acc, next GameSet) GameSet {
	small, large := acc, next
	if large.Len() < small.Len() {
		small, large = large, small
	}

	out := make(map[GameID]struct{}, small.Len())
	for id := range small.ids {
		if large.Contains(id) {
			out[id] = struct{}{}
		}
	}
	return GameSet{ids: out}
}

// Fold intersects initial with every set in order.
func Fold(initial GameSet, sets ...GameSet) GameSet {
	acc := initial
	for _, s := range sets {
		acc = Intersect(acc, s)
	}
	return acc
}

// Source retrieves the list of games a participant owns.
// Implementations return ErrNoVisibleLibrary when the library is not visible.
type Source interface {
	OwnedGames(ctx context.Context, credential string, id user.SteamID) ([]GameID, error)
}

// Fetch retrieves a participant's owned games from src as a GameSet.
func Fetch(ctx context.Context, src Source, credential string, id user.SteamID) (GameSet, error) {
	ids, err := src.OwnedGames(ctx, credential, id)
	if err != nil {
		return GameSet{}, err
	}
	return NewGameSet(ids...), nil
}
