// Package store persists craft documents.
//
// Lookups by id never fail on a malformed or unknown id: they return a nil
// craft and a nil error, the same as for a missing record.
package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/erazemk/crafts/internal/metrics"
	"github.com/erazemk/crafts/internal/model"
)

// ErrUnknownDriver is returned for a storage driver name that is not supported.
var ErrUnknownDriver = errors.New("unknown store driver")

// Crafts is the storage contract used by the HTTP layer.
type Crafts interface {
	// List returns every stored craft in insertion order.
	List(ctx context.Context) ([]model.Craft, error)
	// Get returns the craft with the given id.
	Get(ctx context.Context, id string) (*model.Craft, error)
	// Create inserts c and returns it with its assigned id.
	Create(ctx context.Context, c model.Craft) (*model.Craft, error)
	// Update overwrites name, image, description and supplies and returns the
	// updated craft.
	Update(ctx context.Context, id string, c model.Craft) (*model.Craft, error)
	// Delete removes the craft and returns it as it was before removal.
	Delete(ctx context.Context, id string) (*model.Craft, error)
	// Ping reports whether the backing database is reachable.
	Ping(ctx context.Context) error
}

// parseID converts a path id into an ObjectID. ok is false for anything that
// is not 24 hex characters.
func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// observe logs a finished storage query and records its latency.
func observe(driver, operation string, start time.Time, err error) {
	d := time.Since(start)
	metrics.ObserveStoreQuery(driver, operation, d.Seconds(), err != nil)
	slog.Debug("store query", "driver", driver, "operation", operation, "duration", d, "error", err)
}
