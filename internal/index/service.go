// Package index copies Gmail messages into the local email store.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	gc "github.com/Addarsh/Email-Integration/internal/gmail"
	"github.com/Addarsh/Email-Integration/internal/rate"
	"github.com/Addarsh/Email-Integration/internal/store"
)

// Options controls one indexing run.
type Options struct {
	// Senders restricts the run to mail from these addresses. Empty means
	// the whole mailbox.
	Senders []string
	// MaxCount caps how many messages the run examines. Defaults to 100.
	MaxCount int
	// PageSize is how many IDs each list call asks for. Defaults to 10.
	PageSize int
}

// Store is the slice of the email store the indexer writes to.
type Store interface {
	ReadByIDs(ctx context.Context, ids []string) ([]store.Email, error)
	Insert(ctx context.Context, emails []store.Email) (int64, error)
}

// Service pulls messages out of Gmail and into the store.
type Service struct {
	Client  gc.Client
	Store   Store
	Limiter rate.Limiter
	Logger  *slog.Logger
}

// NewService constructs a Service with sane defaults.
func NewService(client gc.Client, st Store, limiter rate.Limiter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Service{Client: client, Store: st, Limiter: limiter, Logger: logger}
}

// Run lists matching message IDs page by page, skips the ones already
// stored, fetches the rest and inserts everything in one batch at the end.
// It returns the number of newly indexed emails. Messages already in the
// store are never refetched or overwritten.
func (s *Service) Run(ctx context.Context, opts Options) (int64, error) {
	maxCount := opts.MaxCount
	if maxCount <= 0 {
		maxCount = 100
	}
	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 10
	}

	query := gc.SenderQuery(opts.Senders)
	s.Logger.Info("indexing emails", "query", query.Raw, "max_count", maxCount, "page_size", pageSize)

	var emails []store.Email
	seen := 0
	token := ""
	for seen < maxCount {
		if pageSize > maxCount-seen {
			pageSize = maxCount - seen
		}
		if err := s.Limiter.Wait(ctx); err != nil {
			return 0, err
		}
		page, err := s.Client.List(ctx, query, token, pageSize)
		if err != nil {
			return 0, fmt.Errorf("list messages: %w", err)
		}
		seen += len(page.IDs)
		s.Logger.Debug("listed message page", "ids", len(page.IDs), "seen", seen)

		fresh, err := s.newMessages(ctx, page.IDs)
		if err != nil {
			return 0, err
		}
		emails = append(emails, fresh...)

		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}

	if len(emails) == 0 {
		s.Logger.Info("no new emails to index")
		return 0, nil
	}

	inserted, err := s.Store.Insert(ctx, emails)
	if err != nil {
		return 0, err
	}
	s.Logger.Info("indexed emails", "count", inserted)
	return inserted, nil
}

// newMessages drops the IDs already present in the store and fetches the
// rest, preserving page order.
func (s *Service) newMessages(ctx context.Context, ids []gc.MessageID) ([]store.Email, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}
	existing, err := s.Store.ReadByIDs(ctx, raw)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		known[e.ID] = struct{}{}
	}

	var out []store.Email
	for _, id := range ids {
		if _, ok := known[string(id)]; ok {
			continue
		}
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
		msg, err := s.Client.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get message %s: %w", id, err)
		}
		out = append(out, toEmail(msg))
	}
	return out, nil
}

func toEmail(m gc.Message) store.Email {
	return store.Email{
		PK:            store.NewPK(),
		ID:            string(m.ID),
		Sender:        m.Sender,
		Recipient:     m.Recipient,
		Subject:       m.Subject,
		PlainTextBody: m.PlainTextBody,
		ReceivedAt:    m.ReceivedAt.Unix(),
	}
}
