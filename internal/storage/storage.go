// Package storage defines the Storage interface, the contract any
// database backend must satisfy to work with this application.
//
// Repositories and statistics depend only on this interface; the SQLite
// implementation lives in storage/sqlite.
package storage

import (
	"context"

	"github.com/aanand-mishra/tutor-manager/internal/types"

	"github.com/uptrace/bun"
)

// TxFunc runs inside one transaction scope. Returning an error rolls the
// whole scope back.
type TxFunc func(ctx context.Context, tx bun.Tx) error

// Storage is the database contract.
type Storage interface {
	// Tx runs fn in a single all-or-nothing transaction: every write made
	// through tx commits together when fn returns nil, none of them do
	// otherwise.
	Tx(ctx context.Context, fn TxFunc) error

	// Students returns every student in insertion order.
	Students(ctx context.Context) ([]types.Student, error)

	// Courses returns every course in insertion order, with its Student
	// and HourlyRate loaded.
	Courses(ctx context.Context) ([]types.Course, error)

	// Close releases the underlying connection.
	Close() error
}
