package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Addarsh/Email-Integration/internal/gmail"
)

// Report lists rule shapes that are legal but probably unintended.
type Report struct {
	Collections int
	Findings    Findings
}

// Findings groups lint results by kind.
type Findings struct {
	// MatchAll names collections with no rules; they select every stored email.
	MatchAll []string
	// NoAction names collections whose actions change nothing.
	NoAction []string
	// Conflicts lists labels a single collection both adds and removes.
	Conflicts []Conflict
}

// Conflict is a label that one collection adds and removes at once.
type Conflict struct {
	Collection string
	Label      gmail.LabelID
}

// Lint inspects a validated document for suspicious collections.
func Lint(doc *Document) Report {
	rep := Report{Collections: len(doc.Collections)}
	for i, c := range doc.Collections {
		name := c.Description
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		if len(c.Rules) == 0 {
			rep.Findings.MatchAll = append(rep.Findings.MatchAll, name)
		}

		mut, err := c.Mutation()
		if err != nil {
			// Validate rejects these before lint ever runs.
			continue
		}
		if mut.IsZero() {
			rep.Findings.NoAction = append(rep.Findings.NoAction, name)
		}

		added := map[gmail.LabelID]bool{}
		for _, l := range mut.Add {
			added[l] = true
		}
		reported := map[gmail.LabelID]bool{}
		for _, l := range mut.Remove {
			if added[l] && !reported[l] {
				reported[l] = true
				rep.Findings.Conflicts = append(rep.Findings.Conflicts, Conflict{Collection: name, Label: l})
			}
		}
	}
	return rep
}

// ShouldFail reports whether any of the requested conditions are present.
func (r Report) ShouldFail(failOn []string) bool {
	flags := map[string]bool{
		"match-all": len(r.Findings.MatchAll) > 0,
		"no-action": len(r.Findings.NoAction) > 0,
		"conflict":  len(r.Findings.Conflicts) > 0,
	}
	for _, cond := range failOn {
		cond = strings.TrimSpace(strings.ToLower(cond))
		if cond == "" {
			continue
		}
		if flags[cond] {
			return true
		}
	}
	return false
}

// HumanSummary renders a concise CLI summary.
func (r Report) HumanSummary() string {
	builder := &strings.Builder{}
	fmt.Fprintf(builder, "rules lint — %d collections checked\n", r.Collections)
	if len(r.Findings.MatchAll) == 0 && len(r.Findings.NoAction) == 0 && len(r.Findings.Conflicts) == 0 {
		builder.WriteString("no findings\n")
		return builder.String()
	}
	if len(r.Findings.MatchAll) > 0 {
		builder.WriteString("collections matching every email:\n")
		names := append([]string(nil), r.Findings.MatchAll...)
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(builder, "  %s\n", n)
		}
	}
	if len(r.Findings.NoAction) > 0 {
		builder.WriteString("collections with no effect:\n")
		names := append([]string(nil), r.Findings.NoAction...)
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(builder, "  %s\n", n)
		}
	}
	if len(r.Findings.Conflicts) > 0 {
		builder.WriteString("conflicting labels:\n")
		for _, cf := range r.Findings.Conflicts {
			fmt.Fprintf(builder, "  %s — %s both added and removed\n", cf.Collection, cf.Label)
		}
	}
	return builder.String()
}

// ParseFailOn splits a comma separated list into canonical tokens.
func ParseFailOn(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
