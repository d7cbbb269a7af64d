// Package process applies the configured rule collections to the indexed
// emails and pushes the derived label changes back to Gmail.
package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Addarsh/Email-Integration/internal/filter"
	gc "github.com/Addarsh/Email-Integration/internal/gmail"
	"github.com/Addarsh/Email-Integration/internal/rate"
	"github.com/Addarsh/Email-Integration/internal/rules"
	"github.com/Addarsh/Email-Integration/internal/store"
)

// Store is the slice of the email store the processor reads from.
type Store interface {
	Filter(ctx context.Context, req filter.Request) ([]store.Email, error)
}

// Options controls one processing run.
type Options struct {
	// DryRun reports what every collection would do without touching Gmail.
	DryRun bool
}

// Service matches stored emails against rule collections and applies the
// label changes their actions call for.
type Service struct {
	Client  gc.Client
	Store   Store
	Limiter rate.Limiter
	Logger  *slog.Logger
	Clock   func() time.Time
}

// NewService constructs a Service with sane defaults.
func NewService(client gc.Client, st Store, limiter rate.Limiter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Service{Client: client, Store: st, Limiter: limiter, Logger: logger, Clock: time.Now}
}

// batchLimit is Gmail's cap on message IDs per batchModify call.
const batchLimit = 1000

// Run processes every collection in the document. A failing collection is
// logged and skipped so the rest still run; the errors come back joined.
func (s *Service) Run(ctx context.Context, doc *rules.Document, opts Options) error {
	var errs []error
	for i, c := range doc.Collections {
		name := c.Description
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		if err := s.processCollection(ctx, name, c, opts); err != nil {
			s.Logger.Error("collection failed", "collection", name, "error", err)
			errs = append(errs, fmt.Errorf("collection %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) processCollection(ctx context.Context, name string, c rules.Collection, opts Options) error {
	req, err := c.FilterRequest(s.Clock())
	if err != nil {
		return err
	}

	emails, err := s.Store.Filter(ctx, req)
	if err != nil {
		return err
	}
	if len(emails) == 0 {
		s.Logger.Info("no matching emails", "collection", name)
		return nil
	}

	mut, err := c.Mutation()
	if err != nil {
		return err
	}
	if mut.IsZero() {
		s.Logger.Info("collection has no actions", "collection", name, "matched", len(emails))
		return nil
	}

	ids := make([]gc.MessageID, len(emails))
	for i, e := range emails {
		ids[i] = gc.MessageID(e.ID)
	}

	if opts.DryRun {
		s.Logger.Info("dry-run", "collection", name, "matched", len(ids), "add", mut.Add, "remove", mut.Remove)
		return nil
	}

	for i := 0; i < len(ids); i += batchLimit {
		j := i + batchLimit
		if j > len(ids) {
			j = len(ids)
		}
		if err := s.Limiter.Wait(ctx); err != nil {
			return err
		}
		if err := s.Client.BatchModify(ctx, ids[i:j], mut); err != nil {
			return err
		}
	}
	s.Logger.Info("processed collection", "collection", name, "matched", len(ids), "add", mut.Add, "remove", mut.Remove)
	return nil
}
