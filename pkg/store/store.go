// Package store persists racks for the preview server.
//
// Backends:
//   - memory: in-memory storage for development/testing
//   - mongo: MongoDB-backed storage for shared deployments
//
// Records carry server-assigned IDs and timestamps; the rack payload
// itself stays the plain [rack.Rack] document so exports and the CLI
// see the same shape the YAML loader produces.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rackworks/rackviz/pkg/rack"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a rack does not exist.
	ErrNotFound = errors.New("not found")
)

// RackRecord wraps a stored rack with server-side metadata.
type RackRecord struct {
	ID        string    `json:"id" bson:"_id"`
	Rack      rack.Rack `json:"rack" bson:"rack"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// RackStore is the interface for rack persistence backends.
type RackStore interface {
	// Get retrieves a rack by ID. Returns ErrNotFound if it does not
	// exist.
	Get(ctx context.Context, id string) (*RackRecord, error)

	// List returns all racks sorted by name.
	List(ctx context.Context) ([]*RackRecord, error)

	// Create stores a new rack and assigns it an ID.
	Create(ctx context.Context, r *rack.Rack) (*RackRecord, error)

	// Update replaces the rack payload of an existing record.
	// Returns ErrNotFound if the ID does not exist.
	Update(ctx context.Context, id string, r *rack.Rack) (*RackRecord, error)

	// Delete removes a rack. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
