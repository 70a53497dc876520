// Package view turns a fetched registration collection into the filtered,
// sorted and aggregated projections shown by the dashboard. Every function is
// pure: inputs are never modified and results are freshly allocated.
package view

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sirdesai22/registration-dashboard/internal/models"
)

// Derive applies search, then filters, then sort.
func Derive(records []models.Registration, st State) []models.Registration {
	out := Search(records, st.Search)
	out = Filter(out, st.Predicates()...)
	return Sort(out, st.Sort)
}

// Search keeps records whose name or email contains term, ignoring case.
func Search(records []models.Registration, term string) []models.Registration {
	if term == "" {
		return slices.Clone(records)
	}
	needle := strings.ToLower(term)
	out := make([]models.Registration, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), needle) ||
			strings.Contains(strings.ToLower(r.Email), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Filter keeps records matching every non-empty predicate exactly.
func Filter(records []models.Registration, preds ...Predicate) []models.Registration {
	out := make([]models.Registration, 0, len(records))
	for _, r := range records {
		if matches(r, preds) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r models.Registration, preds []Predicate) bool {
	for _, p := range preds {
		if p.Value != "" && r.Text(p.Field) != p.Value {
			return false
		}
	}
	return true
}

// Sort orders records by spec.Field. Text fields use locale-aware collation,
// time fields chronological order. Ties keep their input order.
func Sort(records []models.Registration, spec SortSpec) []models.Registration {
	out := slices.Clone(records)
	f, ok := models.FieldByKey(spec.Field)
	if !ok {
		return out
	}
	cmp := comparator(f)
	if spec.Dir == Desc {
		slices.SortStableFunc(out, func(a, b models.Registration) int { return cmp(b, a) })
	} else {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

func comparator(f models.Field) func(a, b models.Registration) int {
	if f.Kind == models.KindTime {
		return func(a, b models.Registration) int {
			return a.Time(f.Key).Compare(b.Time(f.Key))
		}
	}
	col := newCollator()
	return func(a, b models.Registration) int {
		return col.CompareString(a.Text(f.Key), b.Text(f.Key))
	}
}

// newCollator returns a fresh collator; collate.Collator is not safe for
// concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}
