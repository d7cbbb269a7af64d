package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Addarsh/Email-Integration/internal/gmail"
	"github.com/Addarsh/Email-Integration/internal/store"
)

type fakeClient struct {
	pages       []gmail.ListPage
	listErr     error
	listQueries []string
	listTokens  []string
	messages    map[gmail.MessageID]gmail.Message
	getErr      error
	getCalls    []gmail.MessageID
}

func (f *fakeClient) List(ctx context.Context, q gmail.Query, pageToken string, pageSize int) (gmail.ListPage, error) {
	_ = ctx
	f.listQueries = append(f.listQueries, q.Raw)
	f.listTokens = append(f.listTokens, pageToken)
	if f.listErr != nil {
		return gmail.ListPage{}, f.listErr
	}
	if len(f.pages) == 0 {
		return gmail.ListPage{}, nil
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	if pageSize < len(page.IDs) {
		page.IDs = page.IDs[:pageSize]
	}
	return page, nil
}

func (f *fakeClient) Get(ctx context.Context, id gmail.MessageID) (gmail.Message, error) {
	_ = ctx
	f.getCalls = append(f.getCalls, id)
	if f.getErr != nil {
		return gmail.Message{}, f.getErr
	}
	m, ok := f.messages[id]
	if !ok {
		return gmail.Message{}, fmt.Errorf("no such message %s", id)
	}
	return m, nil
}

func (f *fakeClient) BatchModify(ctx context.Context, ids []gmail.MessageID, mut gmail.Mutation) error {
	_ = ctx
	_ = ids
	_ = mut
	return nil
}

type fakeStore struct {
	existing  map[string]store.Email
	inserted  [][]store.Email
	readErr   error
	insertErr error
}

func (f *fakeStore) ReadByIDs(ctx context.Context, ids []string) ([]store.Email, error) {
	_ = ctx
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []store.Email
	for _, id := range ids {
		if e, ok := f.existing[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) Insert(ctx context.Context, emails []store.Email) (int64, error) {
	_ = ctx
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserted = append(f.inserted, emails)
	return int64(len(emails)), nil
}

type countingLimiter struct{ calls int }

func (c *countingLimiter) Wait(ctx context.Context) error {
	_ = ctx
	c.calls++
	return nil
}

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func message(id string, received time.Time) gmail.Message {
	return gmail.Message{
		ID:            gmail.MessageID(id),
		Sender:        "sender@example.com",
		Recipient:     "me@example.com",
		Subject:       "subject " + id,
		PlainTextBody: "body " + id,
		ReceivedAt:    received,
	}
}

func TestRunIndexesNewMessages(t *testing.T) {
	received := time.Unix(1714521600, 0)
	fake := &fakeClient{
		pages: []gmail.ListPage{
			{IDs: []gmail.MessageID{"a", "b"}, NextPageToken: "t1"},
			{IDs: []gmail.MessageID{"c"}},
		},
		messages: map[gmail.MessageID]gmail.Message{
			"a": message("a", received),
			"c": message("c", received),
		},
	}
	st := &fakeStore{existing: map[string]store.Email{"b": {ID: "b"}}}
	limiter := &countingLimiter{}
	svc := NewService(fake, st, limiter, slogDiscard())

	n, err := svc.Run(context.Background(), Options{
		Senders:  []string{"sender@example.com"},
		MaxCount: 10,
		PageSize: 2,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("indexed %d emails, want 2", n)
	}

	if len(fake.listQueries) != 2 || fake.listQueries[0] != "from:sender@example.com" {
		t.Fatalf("unexpected list queries: %v", fake.listQueries)
	}
	if fake.listTokens[0] != "" || fake.listTokens[1] != "t1" {
		t.Fatalf("unexpected page tokens: %v", fake.listTokens)
	}
	if len(fake.getCalls) != 2 || fake.getCalls[0] != "a" || fake.getCalls[1] != "c" {
		t.Fatalf("unexpected get calls: %v", fake.getCalls)
	}

	if len(st.inserted) != 1 {
		t.Fatalf("expected a single insert batch, got %d", len(st.inserted))
	}
	batch := st.inserted[0]
	if len(batch) != 2 || batch[0].ID != "a" || batch[1].ID != "c" {
		t.Fatalf("unexpected insert batch: %+v", batch)
	}
	if batch[0].PK == 0 {
		t.Fatal("expected a surrogate key to be stamped")
	}
	if batch[0].ReceivedAt != received.Unix() {
		t.Fatalf("received_at %d, want %d", batch[0].ReceivedAt, received.Unix())
	}
	if batch[0].Subject != "subject a" || batch[0].PlainTextBody != "body a" {
		t.Fatalf("unexpected mapped fields: %+v", batch[0])
	}

	// one list wait per page plus one get wait per fetched message
	if limiter.calls != 4 {
		t.Fatalf("limiter waited %d times, want 4", limiter.calls)
	}
}

func TestRunHonorsMaxCount(t *testing.T) {
	fake := &fakeClient{
		pages: []gmail.ListPage{
			{IDs: []gmail.MessageID{"a", "b"}, NextPageToken: "t1"},
			{IDs: []gmail.MessageID{"c", "d"}, NextPageToken: "t2"},
		},
		messages: map[gmail.MessageID]gmail.Message{
			"a": message("a", time.Unix(1, 0)),
			"b": message("b", time.Unix(2, 0)),
			"c": message("c", time.Unix(3, 0)),
			"d": message("d", time.Unix(4, 0)),
		},
	}
	st := &fakeStore{}
	svc := NewService(fake, st, &countingLimiter{}, slogDiscard())

	n, err := svc.Run(context.Background(), Options{MaxCount: 3, PageSize: 2})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("indexed %d emails, want 3", n)
	}
	if len(fake.listQueries) != 2 {
		t.Fatalf("expected 2 list calls, got %d", len(fake.listQueries))
	}
	// the second page is asked for only the single remaining slot
	if len(fake.getCalls) != 3 {
		t.Fatalf("fetched %d messages, want 3", len(fake.getCalls))
	}
}

func TestRunIndexesFinalPage(t *testing.T) {
	fake := &fakeClient{
		pages:    []gmail.ListPage{{IDs: []gmail.MessageID{"only"}}},
		messages: map[gmail.MessageID]gmail.Message{"only": message("only", time.Unix(9, 0))},
	}
	st := &fakeStore{}
	svc := NewService(fake, st, &countingLimiter{}, slogDiscard())

	n, err := svc.Run(context.Background(), Options{MaxCount: 100, PageSize: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("indexed %d emails, want 1", n)
	}
	if len(fake.listQueries) != 1 {
		t.Fatalf("expected 1 list call, got %d", len(fake.listQueries))
	}
}

func TestRunSkipsExistingMessages(t *testing.T) {
	fake := &fakeClient{
		pages: []gmail.ListPage{{IDs: []gmail.MessageID{"a", "b"}}},
	}
	st := &fakeStore{existing: map[string]store.Email{
		"a": {ID: "a"},
		"b": {ID: "b"},
	}}
	svc := NewService(fake, st, &countingLimiter{}, slogDiscard())

	n, err := svc.Run(context.Background(), Options{MaxCount: 10, PageSize: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("indexed %d emails, want 0", n)
	}
	if len(fake.getCalls) != 0 {
		t.Fatalf("expected no message fetches, got %v", fake.getCalls)
	}
	if len(st.inserted) != 0 {
		t.Fatalf("expected no insert, got %d batches", len(st.inserted))
	}
}

func TestRunPropagatesFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		fake  *fakeClient
		store *fakeStore
	}{
		{
			name:  "list fails",
			fake:  &fakeClient{listErr: boom},
			store: &fakeStore{},
		},
		{
			name: "get fails",
			fake: &fakeClient{
				pages:  []gmail.ListPage{{IDs: []gmail.MessageID{"a"}}},
				getErr: boom,
			},
			store: &fakeStore{},
		},
		{
			name: "read fails",
			fake: &fakeClient{
				pages: []gmail.ListPage{{IDs: []gmail.MessageID{"a"}}},
			},
			store: &fakeStore{readErr: boom},
		},
		{
			name: "insert fails",
			fake: &fakeClient{
				pages:    []gmail.ListPage{{IDs: []gmail.MessageID{"a"}}},
				messages: map[gmail.MessageID]gmail.Message{"a": message("a", time.Unix(1, 0))},
			},
			store: &fakeStore{insertErr: boom},
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(tc.fake, tc.store, &countingLimiter{}, slogDiscard())
			if _, err := svc.Run(context.Background(), Options{MaxCount: 5, PageSize: 5}); !errors.Is(err, boom) {
				t.Fatalf("expected wrapped boom, got %v", err)
			}
		})
	}
}
