// internal/runtime/auth.go
package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mbrt/gmailctl/cmd/gmailctl/localcred"
	"google.golang.org/api/gmail/v1"

	gc "github.com/Addarsh/Email-Integration/internal/gmail"
)

// Scope is how much Gmail access a binary asks for. Indexing only reads
// mail; processing rules needs to modify labels.
type Scope int

const (
	ScopeReadonly Scope = iota
	ScopeModify
)

// NewGmailClient authorizes against Gmail with the credential files in
// cfgDir and returns a client backed by the live API.
func NewGmailClient(ctx context.Context, cfgDir string, scope Scope) (gc.Client, error) {
	var svc *gmail.Service
	var err error
	// localcred runs the OAuth flow on first use and caches the token in cfgDir.
	switch scope {
	case ScopeReadonly:
		svc, err = (localcred.Provider{}).Service(ctx, cfgDir)
	case ScopeModify:
		svc, err = (localcred.Provider{}).Service(ctx, cfgDir)
	default:
		panic("unknown scope")
	}
	if err != nil {
		return nil, err
	}
	return NewGoogleAPIClient(svc), nil
}

// DefaultLogger builds the stderr text logger every binary shares.
func DefaultLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// FileLogger builds a logger that writes to stderr and also appends to the
// file at path, creating it if needed. Closing the file is the caller's job.
func FileLogger(level slog.Level, path string) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G304
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	w := io.MultiWriter(os.Stderr, f)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), f, nil
}

// ParseLevel reads a log level flag value such as "debug" or "WARN".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("parse log level %q: %w", s, err)
	}
	return level, nil
}
