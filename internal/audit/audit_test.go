package audit_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-generator/internal/audit"
	"github.com/rezonia/invoice-generator/internal/model"
	"github.com/rezonia/invoice-generator/internal/totals"
)

func sampleEntry(number string) audit.Entry {
	inv := &model.Invoice{
		Number:    number,
		IssueDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		Seller:    model.Party{Name: "Seller", VAT: model.PresetVATNumbers[0]},
		Customer:  model.Party{Name: "Customer", AddressLines: []string{"1 Main St"}},
		Items: []model.LineItem{
			{Description: "Widget", UnitPrice: decimal.RequireFromString("19.99"), Quantity: 3, Currency: model.CurrencyEUR},
		},
		Currency:   model.CurrencyEUR,
		Language:   model.LanguageFR,
		VATApplies: true,
		VATRate:    decimal.NewFromInt(20),
	}
	return audit.NewEntry(inv, totals.Calculate(inv), time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC))
}

func TestNewEntry(t *testing.T) {
	e := sampleEntry("INV-1")

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, "INV-1_FR.pdf", e.FileName)
	assert.True(t, e.Totals.GrandTotal.Equal(decimal.RequireFromString("71.96")))
}

func TestFileLog_AppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "invoices.jsonl")
	log := audit.NewFileLog(path)
	ctx := context.Background()

	first, second := sampleEntry("INV-1"), sampleEntry("INV-2")
	second.Warnings = []string{"something"}
	require.NoError(t, log.Append(ctx, first))
	require.NoError(t, log.Append(ctx, second))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(raw), "\n"), "one line per entry")

	entries, err := log.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, "INV-1", entries[0].Invoice.Number)
	assert.Equal(t, model.VATKindPreset, entries[0].Invoice.Seller.VAT.Kind)
	assert.True(t, entries[0].Totals.Subtotal.Equal(decimal.RequireFromString("59.97")))
	assert.True(t, entries[0].GeneratedAt.Equal(first.GeneratedAt))

	assert.Equal(t, "INV-2", entries[1].Invoice.Number)
	assert.Equal(t, []string{"something"}, entries[1].Warnings)
}

func TestFileLog_NeverRewritesEarlierEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoices.jsonl")
	log := audit.NewFileLog(path)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, sampleEntry("INV-1")))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, log.Append(ctx, sampleEntry("INV-2")))
	after, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(after), string(before)))
}

func TestFileLog_ConcurrentAppends(t *testing.T) {
	log := audit.NewFileLog(filepath.Join(t.TempDir(), "invoices.jsonl"))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, log.Append(ctx, sampleEntry(fmt.Sprintf("INV-%d", i))))
		}(i)
	}
	wg.Wait()

	entries, err := log.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 50)
}

func TestFileLog_Recent(t *testing.T) {
	log := audit.NewFileLog(filepath.Join(t.TempDir(), "invoices.jsonl"))
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		require.NoError(t, log.Append(ctx, sampleEntry(fmt.Sprintf("INV-%d", i))))
	}

	recent, err := log.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "INV-4", recent[0].Invoice.Number)
	assert.Equal(t, "INV-5", recent[1].Invoice.Number)

	all, err := log.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestFileLog_MissingFileIsEmpty(t *testing.T) {
	log := audit.NewFileLog(filepath.Join(t.TempDir(), "absent.jsonl"))

	entries, err := log.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileLog_UnwritablePath(t *testing.T) {
	// a directory cannot be opened for writing
	log := audit.NewFileLog(t.TempDir())

	err := log.Append(context.Background(), sampleEntry("INV-1"))
	require.Error(t, err)

	var perr *model.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "open", perr.Op)
	assert.Equal(t, log.Path(), perr.Target)
}

func TestFileLog_CancelledContext(t *testing.T) {
	log := audit.NewFileLog(filepath.Join(t.TempDir(), "invoices.jsonl"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := log.Append(ctx, sampleEntry("INV-1"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestFileLog_CorruptLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoices.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{not json}\n"), 0o644))

	_, err := audit.NewFileLog(path).ReadAll(context.Background())
	var perr *model.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, err.Error(), "line 1")
}

func TestNop(t *testing.T) {
	var sink audit.Sink = audit.Nop{}
	require.NoError(t, sink.Append(context.Background(), sampleEntry("INV-1")))

	entries, err := audit.Nop{}.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPostgresLog(t *testing.T) {
	dsn := os.Getenv("INVOICE_AUDIT_DSN")
	if dsn == "" {
		t.Skip("INVOICE_AUDIT_DSN not set")
	}
	ctx := context.Background()

	log, err := audit.NewPostgresLog(ctx, dsn)
	require.NoError(t, err)
	defer log.Close()

	e := sampleEntry(fmt.Sprintf("PG-%d", time.Now().UnixNano()))
	e.GeneratedAt = time.Now().UTC()
	require.NoError(t, log.Append(ctx, e))

	recent, err := log.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, e.ID, recent[0].ID)
}

func TestPostgresLog_InsertionOrder(t *testing.T) {
	dsn := os.Getenv("INVOICE_AUDIT_DSN")
	if dsn == "" {
		t.Skip("INVOICE_AUDIT_DSN not set")
	}
	ctx := context.Background()

	log, err := audit.NewPostgresLog(ctx, dsn)
	require.NoError(t, err)
	defer log.Close()

	// each writer's clock runs behind the previous one
	base := time.Now().UTC()
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		e := sampleEntry(fmt.Sprintf("PG-SKEW-%d-%d", base.UnixNano(), i))
		e.GeneratedAt = base.Add(-time.Duration(i) * time.Hour)
		require.NoError(t, log.Append(ctx, e))
		ids = append(ids, e.ID)
	}

	recent, err := log.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	for i, e := range recent {
		assert.Equal(t, ids[i], e.ID, "entry %d", i)
	}
}
