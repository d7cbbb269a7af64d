package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Addarsh/Email-Integration/internal/filter"
)

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emails.db")
	s, err := Open(context.Background(), path, slogDiscard())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedEmails() []Email {
	return []Email{
		{PK: 1, ID: "m1", Sender: "tanmay@startup.io", Recipient: "me@example.com", Subject: "Quarterly invoice", PlainTextBody: "Please find the invoice attached.", ReceivedAt: 100},
		{PK: 2, ID: "m2", Sender: "tanmay@startup.io", Recipient: "me@example.com", Subject: "Lunch?", PlainTextBody: "Free tomorrow? Click unsubscribe to opt out.", ReceivedAt: 200},
		{PK: 3, ID: "m3", Sender: "deals@shopping.com", Recipient: "me@example.com", Subject: "Huge discount inside", PlainTextBody: "Limited offer, unsubscribe below.", ReceivedAt: 100},
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "emails.db")

	first, err := Open(ctx, path, slogDiscard())
	require.NoError(t, err)
	_, err = first.Insert(ctx, seedEmails())
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(ctx, path, slogDiscard())
	require.NoError(t, err)
	defer second.Close()

	got, err := second.ReadByIDs(ctx, []string{"m1", "m2", "m3"})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestInsertFirstWriteWins(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	n, err := s.Insert(ctx, []Email{{PK: 7, ID: "dup", Sender: "a@x.com", Recipient: "b@x.com", Subject: "original", PlainTextBody: "first body", ReceivedAt: 50}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.Insert(ctx, []Email{{PK: 8, ID: "dup", Sender: "a@x.com", Recipient: "b@x.com", Subject: "replacement", PlainTextBody: "second body", ReceivedAt: 60}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	got, err := s.ReadByIDs(ctx, []string{"dup"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "original", got[0].Subject)
	assert.Equal(t, int64(7), got[0].PK)
}

func TestInsertStampsMissingPK(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Insert(ctx, []Email{{ID: "nopk", Sender: "a@x.com", Recipient: "b@x.com", Subject: "s", PlainTextBody: "b", ReceivedAt: 1}})
	require.NoError(t, err)

	got, err := s.ReadByIDs(ctx, []string{"nopk"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Positive(t, got[0].PK)
}

func TestInsertEmptyBatch(t *testing.T) {
	s := newTestStore(t)
	n, err := s.Insert(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReadByIDsSkipsUnknown(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seed := seedEmails()
	_, err := s.Insert(ctx, seed)
	require.NoError(t, err)

	got, err := s.ReadByIDs(ctx, []string{"m2", "missing"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, seed[1], got[0])

	got, err = s.ReadByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.Insert(ctx, seedEmails())
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     filter.Request
		wantIDs []string
	}{
		{
			name:    "no rules returns every row",
			req:     filter.Request{Combine: filter.All},
			wantIDs: []string{"m1", "m2", "m3"},
		},
		{
			name: "containment and date cutoff combine across engines",
			req: filter.Request{
				Combine: filter.All,
				Rules: []filter.Rule{
					{Column: filter.ColumnSender, Predicate: filter.Contains, Value: "tanmay"},
					{Column: filter.ColumnReceivedAt, Predicate: filter.LessThan, Value: int64(150)},
				},
			},
			wantIDs: []string{"m1"},
		},
		{
			name: "not-contains excludes matching bodies",
			req: filter.Request{
				Combine: filter.All,
				Rules:   []filter.Rule{{Column: filter.ColumnBody, Predicate: filter.NotContains, Value: "unsubscribe"}},
			},
			wantIDs: []string{"m1"},
		},
		{
			name: "greater-than is strict",
			req: filter.Request{
				Combine: filter.All,
				Rules:   []filter.Rule{{Column: filter.ColumnReceivedAt, Predicate: filter.GreaterThan, Value: int64(100)}},
			},
			wantIDs: []string{"m2"},
		},
		{
			name: "any combinator unions scalar matches",
			req: filter.Request{
				Combine: filter.Any,
				Rules: []filter.Rule{
					{Column: filter.ColumnID, Predicate: filter.Equals, Value: "m3"},
					{Column: filter.ColumnReceivedAt, Predicate: filter.GreaterThan, Value: int64(150)},
				},
			},
			wantIDs: []string{"m2", "m3"},
		},
		{
			name: "any combinator unions across both engines",
			req: filter.Request{
				Combine: filter.Any,
				Rules: []filter.Rule{
					{Column: filter.ColumnSender, Predicate: filter.Equals, Value: "deals@shopping.com"},
					{Column: filter.ColumnSubject, Predicate: filter.Contains, Value: "invoice"},
				},
			},
			wantIDs: []string{"m1", "m3"},
		},
		{
			name: "hostile value matches nothing instead of breaking the query",
			req: filter.Request{
				Combine: filter.All,
				Rules:   []filter.Rule{{Column: filter.ColumnBody, Predicate: filter.Contains, Value: `zero" OR pk NOT NULL; --`}},
			},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Filter(ctx, tc.req)
			require.NoError(t, err)

			var ids []string
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			assert.ElementsMatch(t, tc.wantIDs, ids)
		})
	}
}

func TestFilterKeepsCompileErrors(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Filter(context.Background(), filter.Request{
		Combine: filter.All,
		Rules:   []filter.Rule{{Column: filter.Column("pk"), Predicate: filter.Equals, Value: 1}},
	})
	require.ErrorIs(t, err, filter.ErrInvalidColumn)
	assert.NotErrorIs(t, err, ErrRead)
}

func TestNewPKNeverGoesNegative(t *testing.T) {
	for i := 0; i < 64; i++ {
		assert.GreaterOrEqual(t, NewPK(), int64(0))
	}
}
