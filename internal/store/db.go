package store

import (
	"context"
	"database/sql"
	"math"
)

// DBTX is implemented by both *sql.DB and *sql.Tx, so store code runs
// unchanged inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Default and maximum page sizes for list operations.
const (
	DefaultPerPage = 10
	MaxPerPage     = 1000

	// MaxOffset bounds the OFFSET a page may reach. Pages past it are
	// clamped and come back empty.
	MaxOffset = math.MaxInt32
)

// Page is a 1-based page request translated to LIMIT/OFFSET.
type Page struct {
	Number  int
	PerPage int
}

// NewPage clamps perPage to [1, MaxPerPage], substituting defaultPerPage
// when perPage is not positive, and number to [1, last page whose offset
// fits in MaxOffset].
func NewPage(number, perPage, defaultPerPage int) Page {
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if number < 1 {
		number = 1
	}
	if maxNumber := MaxOffset/perPage + 1; number > maxNumber {
		number = maxNumber
	}
	return Page{Number: number, PerPage: perPage}
}

// Limit returns the LIMIT for the page.
func (p Page) Limit() int {
	return p.PerPage
}

// Offset returns the OFFSET for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}
