package filter

import (
	"fmt"
	"strings"
	"time"
)

// Table names shared with the store's bootstrap schema.
const (
	emailTable = "emails"
	ftsTable   = "fts_idx_emails"
)

// selectEmails is the fixed projection every compiled query returns.
const selectEmails = "SELECT pk, id, sender, recipient, subject, plain_text_body, received_at FROM " + emailTable

// Compile turns a request into one SQL statement plus its positional
// parameters. Containment rules collapse into at most two full-text
// subqueries (one per polarity); the remaining rules become scalar
// comparisons. A request with no rules selects the whole table.
func Compile(req Request) (string, []any, error) {
	joiner, err := req.Combine.sqlJoiner()
	if err != nil {
		return "", nil, err
	}

	var search, lookup []Rule
	for _, r := range req.Rules {
		if !r.Column.Valid() {
			return "", nil, fmt.Errorf("%w: %q", ErrInvalidColumn, string(r.Column))
		}
		switch r.Predicate {
		case Contains, NotContains:
			search = append(search, r)
		case Equals, NotEquals, LessThan, GreaterThan:
			lookup = append(lookup, r)
		default:
			return "", nil, fmt.Errorf("%w: %d", ErrInvalidPredicate, int(r.Predicate))
		}
	}

	var clauses []string
	var params []any

	if len(search) > 0 {
		var include, exclude []string
		for _, r := range search {
			expr := matchExpr(r.Column, r.Value)
			if r.Predicate == Contains {
				include = append(include, expr)
			} else {
				exclude = append(exclude, expr)
			}
		}
		if len(include) > 0 {
			clauses = append(clauses, "pk IN (SELECT rowid FROM "+ftsTable+" WHERE "+ftsTable+" MATCH ?)")
			params = append(params, strings.Join(include, joiner))
		}
		if len(exclude) > 0 {
			clauses = append(clauses, "pk NOT IN (SELECT rowid FROM "+ftsTable+" WHERE "+ftsTable+" MATCH ?)")
			params = append(params, strings.Join(exclude, joiner))
		}
	}

	if len(lookup) > 0 {
		parts := make([]string, 0, len(lookup))
		for _, r := range lookup {
			parts = append(parts, fmt.Sprintf("%s %s ?", r.Column, scalarOp(r.Predicate)))
			params = append(params, bindValue(r.Value))
		}
		clauses = append(clauses, strings.Join(parts, joiner))
	}

	query := selectEmails
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, joiner)
	}
	return query, params, nil
}

func (c Combinator) sqlJoiner() (string, error) {
	switch c {
	case All:
		return " AND ", nil
	case Any:
		return " OR ", nil
	default:
		return "", fmt.Errorf("%w: %d", ErrInvalidCombinator, int(c))
	}
}

func scalarOp(p Predicate) string {
	switch p {
	case Equals:
		return "="
	case NotEquals:
		return "!="
	case LessThan:
		return "<"
	default:
		return ">"
	}
}

// matchExpr renders one column-scoped FTS5 term. The value is quoted as an
// FTS string literal so user text cannot smuggle in query syntax.
func matchExpr(col Column, value any) string {
	text := strings.ReplaceAll(fmt.Sprint(value), `"`, `""`)
	return fmt.Sprintf(`%s : "%s"`, col, text)
}

// bindValue normalizes a rule value for the SQL driver. Times bind as Unix
// seconds to match the received_at column.
func bindValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Unix()
	}
	return v
}
