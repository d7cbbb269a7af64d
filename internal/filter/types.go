// Package filter compiles boolean rule collections over the email store's
// columns into a single SQL query that spans both the scalar indexes and the
// full-text mirror.
package filter

import "errors"

// Column identifies a queryable column of the indexed email table. The
// values double as the SQL column names.
type Column string

const (
	ColumnID         Column = "id"
	ColumnSender     Column = "sender"
	ColumnRecipient  Column = "recipient"
	ColumnSubject    Column = "subject"
	ColumnBody       Column = "plain_text_body"
	ColumnReceivedAt Column = "received_at"
)

// Valid reports whether the column belongs to the fixed queryable set.
func (c Column) Valid() bool {
	switch c {
	case ColumnID, ColumnSender, ColumnRecipient, ColumnSubject, ColumnBody, ColumnReceivedAt:
		return true
	default:
		return false
	}
}

// Predicate is the closed set of comparison operators a rule may use.
// Contains and NotContains are answered by the full-text mirror; the rest
// are answered by the scalar indexes.
type Predicate int

const (
	Equals Predicate = iota
	NotEquals
	LessThan
	GreaterThan
	Contains
	NotContains
)

// String renders the predicate for logs and error messages.
func (p Predicate) String() string {
	switch p {
	case Equals:
		return "equals"
	case NotEquals:
		return "not-equals"
	case LessThan:
		return "less-than"
	case GreaterThan:
		return "greater-than"
	case Contains:
		return "contains"
	case NotContains:
		return "not-contains"
	default:
		return "unknown"
	}
}

// Combinator joins the rules of a request into one boolean expression.
type Combinator int

const (
	// All requires every rule to hold (logical AND).
	All Combinator = iota
	// Any requires at least one rule to hold (logical OR).
	Any
)

// Rule is a single column/predicate/value condition. Value is bound as a
// query parameter, never interpolated into SQL text.
type Rule struct {
	Column    Column
	Predicate Predicate
	Value     any
}

// Request is a flat, uniformly combined list of rules.
type Request struct {
	Combine Combinator
	Rules   []Rule
}

var (
	// ErrInvalidColumn reports a rule whose column is outside the fixed set.
	ErrInvalidColumn = errors.New("invalid filter column")
	// ErrInvalidPredicate reports a rule whose predicate is outside the closed enum.
	ErrInvalidPredicate = errors.New("invalid filter predicate")
	// ErrInvalidCombinator reports a request whose combinator is neither All nor Any.
	ErrInvalidCombinator = errors.New("invalid rule combinator")
)
