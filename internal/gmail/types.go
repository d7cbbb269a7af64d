package gmail

import (
	"strings"
	"time"
)

type MessageID string
type LabelID string

// Built-in Gmail label IDs the rule actions operate on.
const (
	LabelInbox     LabelID = "INBOX"
	LabelSpam      LabelID = "SPAM"
	LabelImportant LabelID = "IMPORTANT"
	LabelUnread    LabelID = "UNREAD"
)

// Query is a raw Gmail search expression, already formed
// (e.g. `from:alerts@github.com OR from:billing@stripe.com`).
type Query struct {
	Raw string
}

// SenderQuery builds a query matching mail from any of the given senders.
// No senders means no restriction.
func SenderQuery(senders []string) Query {
	if len(senders) == 0 {
		return Query{}
	}
	terms := make([]string, len(senders))
	for i, s := range senders {
		terms[i] = "from:" + s
	}
	return Query{Raw: strings.Join(terms, " OR ")}
}

// ListPage is one page of message IDs from a list call.
type ListPage struct {
	IDs           []MessageID
	NextPageToken string
}

// Message is a fetched message with its envelope already decoded.
// ReceivedAt comes from Gmail's internal delivery timestamp.
type Message struct {
	ID            MessageID
	Sender        string
	Recipient     string
	Subject       string
	PlainTextBody string
	ReceivedAt    time.Time
}

// Mutation is a set of label changes applied to messages in bulk. The
// slices may carry repeats; Gmail treats the application as idempotent.
type Mutation struct {
	Add    []LabelID
	Remove []LabelID
}

// IsZero reports whether the mutation changes nothing.
func (m Mutation) IsZero() bool {
	return len(m.Add) == 0 && len(m.Remove) == 0
}
