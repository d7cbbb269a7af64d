// Package rules loads rule collections from their config file and turns
// them into store filter requests and Gmail label mutations.
//
// The rule file speaks the business vocabulary ("From contains x", "Mark
// Message As Read"); this package owns the translation into the storage
// and Gmail vocabularies.
package rules

import "errors"

// Field names a message attribute in the rule file's vocabulary.
type Field string

const (
	FieldFrom     Field = "From"
	FieldTo       Field = "To"
	FieldSubject  Field = "Subject"
	FieldMessage  Field = "Message"
	FieldReceived Field = "Date Received"
)

// Predicate is a comparison written the way the rule file spells it.
type Predicate string

const (
	PredContains    Predicate = "contains"
	PredNotContains Predicate = "does not contain"
	PredEquals      Predicate = "is equal to"
	PredNotEquals   Predicate = "is not equal to"
	PredLessThan    Predicate = "is less than"
	PredGreaterThan Predicate = "is greater than"
)

// MatchPolicy says whether a collection needs all of its rules to hold or
// any one of them.
type MatchPolicy string

const (
	MatchAll MatchPolicy = "All"
	MatchAny MatchPolicy = "Any"
)

// ActionType is the kind of change a matching collection applies.
type ActionType string

const (
	ActionMark ActionType = "Mark Message As"
	ActionMove ActionType = "Move Message To"
)

// Target is the label vocabulary used by actions. Mark actions accept Read
// and Unread; Move actions accept Inbox, Spam and Important.
type Target string

const (
	TargetInbox     Target = "Inbox"
	TargetSpam      Target = "Spam"
	TargetImportant Target = "Important"
	TargetRead      Target = "Read"
	TargetUnread    Target = "Unread"
)

// Rule is one field/predicate/value condition from the rule file.
type Rule struct {
	Field     Field     `yaml:"field_name"`
	Predicate Predicate `yaml:"predicate"`
	Value     string    `yaml:"value"`
}

// Action is one change to apply to every matching message.
type Action struct {
	Type  ActionType `yaml:"type"`
	Value Target     `yaml:"value"`
}

// Collection is a named group of rules sharing a match policy and a set of
// actions.
type Collection struct {
	Description string      `yaml:"description"`
	Match       MatchPolicy `yaml:"predicate"`
	Rules       []Rule      `yaml:"rules"`
	Actions     []Action    `yaml:"actions"`
}

// Document is the top-level shape of the rule file.
type Document struct {
	Collections []Collection `yaml:"collections"`
}

var (
	// ErrConfig reports a rule file that cannot be read, decoded or validated.
	ErrConfig = errors.New("invalid rules configuration")
	// ErrField reports a rule field outside the closed vocabulary.
	ErrField = errors.New("invalid rule field")
	// ErrPredicate reports a rule predicate outside the closed vocabulary.
	ErrPredicate = errors.New("invalid rule predicate")
	// ErrMatchPolicy reports a collection predicate that is neither All nor Any.
	ErrMatchPolicy = errors.New("invalid collection match policy")
	// ErrActionLabel reports an action whose target its type cannot use.
	ErrActionLabel = errors.New("invalid action label")
)
