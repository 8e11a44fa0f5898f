// Package registration validates and persists campaign sign-ups.
package registration

import (
	"context"

	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
)

// Store persists registrations.
type Store interface {
	// Save appends one registration.
	Save(ctx context.Context, rec models.Registration) error
	// List returns every stored registration in insertion order.
	List(ctx context.Context) ([]models.Registration, error)
	// Close releases the store's resources.
	Close() error
}

// Drivers supported by OpenStore.
const (
	DriverCSV    = "csv"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)
