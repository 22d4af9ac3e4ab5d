// Package audit keeps an append-only record of every generated invoice.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rezonia/invoice-generator/internal/model"
)

// Entry is one audit record: the invoice as rendered with its totals
type Entry struct {
	ID          uuid.UUID      `json:"id"`
	GeneratedAt time.Time      `json:"generated_at"`
	FileName    string         `json:"file_name"`
	Pages       int            `json:"pages"`
	Invoice     *model.Invoice `json:"invoice"`
	Totals      model.Totals   `json:"totals"`
	Warnings    []string       `json:"warnings,omitempty"`
}

// NewEntry creates an entry with a fresh ID
func NewEntry(inv *model.Invoice, totals model.Totals, at time.Time) Entry {
	return Entry{
		ID:          uuid.New(),
		GeneratedAt: at.UTC(),
		FileName:    inv.FileName(),
		Invoice:     inv,
		Totals:      totals,
	}
}

// Sink appends entries. Implementations never modify or remove earlier entries.
type Sink interface {
	Append(ctx context.Context, e Entry) error
}

// Reader lists the most recent entries in insertion order
type Reader interface {
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Nop discards entries
type Nop struct{}

func (Nop) Append(context.Context, Entry) error { return nil }

func (Nop) Recent(context.Context, int) ([]Entry, error) { return nil, nil }

func tail(entries []Entry, limit int) []Entry {
	if limit > 0 && len(entries) > limit {
		return entries[len(entries)-limit:]
	}
	return entries
}
