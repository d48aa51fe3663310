/*
Package catalog classifies games as multiplayer-capable from their store metadata.

The store tags every application with category ids. Three of them (Multi-player, Co-op
and Online PvP) are the fixed markers of a game that a group can play together.
*/
package catalog

import (
	"context"
	"slices"

	"commongames/internal/app/library"
)

// CategoryID is a store category tag.
type CategoryID uint32

// Store category ids that mark a game as multiplayer-capable.
const (
	CategoryMultiplayer CategoryID = 1
	CategoryCoop        CategoryID = 9
	CategoryOnlinePvP   CategoryID = 32
)

var multiplayerCategories = []CategoryID{CategoryMultiplayer, CategoryCoop, CategoryOnlinePvP}

// Metadata is the part of a store entry the classifier reads.
type Metadata struct {
	Name       string
	Categories []CategoryID
}

// ClassifiedGame is a game resolved against the store.
type ClassifiedGame struct {
	ID            library.GameID
	Name          string
	IsMultiplayer bool
}

// Source retrieves store metadata for one game.
// ok is false when the store has no resolvable name for the id.
type Source interface {
	AppDetails(ctx context.Context, id library.GameID) (meta Metadata, ok bool, err error)
}

// IsMultiplayer reports whether any of categories is a multiplayer marker.
func IsMultiplayer(categories []CategoryID) bool {
	for _, c := range multiplayerCategories {
		if slices.Contains(categories, c) {
			return true
		}
	}
	return false
}

// Classifier resolves game ids into ClassifiedGame values.
type Classifier struct {
	source Source
}

// NewClassifier returns a Classifier backed by source.
func NewClassifier(source Source) *Classifier {
	return &Classifier{source: source}
}

// Classify fetches the metadata for id and classifies it.
// ok is false when the id has no resolvable name; such games are excluded, not reported as errors.
func (c *Classifier) Classify(ctx context.Context, id library.GameID) (ClassifiedGame, bool, error) {
	meta, ok, err := c.source.AppDetails(ctx, id)
	if err != nil {
		return ClassifiedGame{}, false, err
	}
	if !ok || meta.Name == "" {
		return ClassifiedGame{}, false, nil
	}

	return ClassifiedGame{
		ID:            id,
		Name:          meta.Name,
		IsMultiplayer: IsMultiplayer(meta.Categories),
	}, true, nil
}
