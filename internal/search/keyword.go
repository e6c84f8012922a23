// Package search finds courses by keyword.
package search

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/kamusis/coursepath/internal/dataset"
)

// Courses searches course names and descriptions by case-insensitive keyword
// matching. All query tokens must match (AND semantics); tokens may be split
// across name and description. Text is NFKC-normalized so fullwidth and
// halfwidth forms match each other.
func Courses(ds dataset.Dataset, query string, limit int) []Result {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return []Result{}
	}

	out := []Result{}
	for _, it := range ds.Items {
		name := fold(it.Name)
		desc := fold(it.Description)
		blob := name + "\n" + desc
		ok := true
		for _, tok := range tokens {
			if !strings.Contains(blob, tok) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		out = append(out, classify(it, name, desc, tokens))
	}

	SortResults(out)

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func classify(it dataset.Item, name, desc string, tokens []string) Result {
	r := Result{Course: it}
	var why []string
	if containsAll(name, tokens) {
		r.Score++
		why = append(why, "name")
	}
	if containsAll(desc, tokens) {
		r.Score++
		why = append(why, "description")
	}
	if len(why) == 0 {
		why = append(why, "name+description")
	}
	r.Why = strings.Join(why, ",")
	return r
}

func containsAll(s string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(s, tok) {
			return false
		}
	}
	return true
}

func fold(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

func tokenize(q string) []string {
	q = strings.TrimSpace(fold(q))
	if q == "" {
		return nil
	}
	parts := strings.Fields(q)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
