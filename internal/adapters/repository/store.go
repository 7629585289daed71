// Package repository provides read access to the annotation catalog:
// recorded events and the video assets uploaded for each match.
package repository

import (
	"context"

	"github.com/okian/rematch/internal/domain/model"
)

// Store reads events and match assets from the catalog.
type Store interface {
	// Event returns the event with the given id, or ErrNotFound.
	Event(ctx context.Context, id string) (model.Event, error)

	// AssetsForMatch returns the assets uploaded for a match in stable
	// upload order. An empty slice means the match has no footage.
	AssetsForMatch(ctx context.Context, matchID string) ([]model.VideoAsset, error)

	// Close releases the underlying storage.
	Close() error
}
