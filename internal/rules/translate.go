package rules

import (
	"fmt"
	"time"

	"github.com/Addarsh/Email-Integration/internal/filter"
)

// columnFor maps the rule file vocabulary onto store columns.
var columnFor = map[Field]filter.Column{
	FieldFrom:     filter.ColumnSender,
	FieldTo:       filter.ColumnRecipient,
	FieldSubject:  filter.ColumnSubject,
	FieldMessage:  filter.ColumnBody,
	FieldReceived: filter.ColumnReceivedAt,
}

var predicateFor = map[Predicate]filter.Predicate{
	PredContains:    filter.Contains,
	PredNotContains: filter.NotContains,
	PredEquals:      filter.Equals,
	PredNotEquals:   filter.NotEquals,
	PredLessThan:    filter.LessThan,
	PredGreaterThan: filter.GreaterThan,
}

// FilterRequest translates the collection into a store filter request
// anchored at now.
//
// Date rules need two adjustments. Their values are relative ("30 days"),
// so they resolve to the Unix timestamp that long before now. And their
// comparison flips: mail received less than 30 days ago carries a
// timestamp greater than the 30-day cutoff, and vice versa.
func (c Collection) FilterRequest(now time.Time) (filter.Request, error) {
	var req filter.Request
	switch c.Match {
	case MatchAll:
		req.Combine = filter.All
	case MatchAny:
		req.Combine = filter.Any
	default:
		return filter.Request{}, fmt.Errorf("%w: %q", ErrMatchPolicy, string(c.Match))
	}

	for _, r := range c.Rules {
		col, ok := columnFor[r.Field]
		if !ok {
			return filter.Request{}, fmt.Errorf("%w: %q", ErrField, string(r.Field))
		}
		pred, ok := predicateFor[r.Predicate]
		if !ok {
			return filter.Request{}, fmt.Errorf("%w: %q", ErrPredicate, string(r.Predicate))
		}

		value := any(r.Value)
		if r.Field == FieldReceived {
			age, err := ParseAge(r.Value)
			if err != nil {
				return filter.Request{}, err
			}
			value = age.Before(now).Unix()
			switch pred {
			case filter.LessThan:
				pred = filter.GreaterThan
			case filter.GreaterThan:
				pred = filter.LessThan
			}
		}

		req.Rules = append(req.Rules, filter.Rule{Column: col, Predicate: pred, Value: value})
	}
	return req, nil
}
