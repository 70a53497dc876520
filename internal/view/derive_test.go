package view

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/sirdesai22/registration-dashboard/internal/models"
)

func exampleCollection() []models.Registration {
	return []models.Registration{
		{ID: uuid.New(), Name: "Ann", Email: "ann@x.com", Event: "Hack"},
		{ID: uuid.New(), Name: "Bo", Email: "bo@x.com", Event: "Quiz"},
	}
}

func names(regs []models.Registration) []string {
	out := make([]string, len(regs))
	for i, r := range regs {
		out[i] = r.Name
	}
	return out
}

func TestEndToEndExample(t *testing.T) {
	c := exampleCollection()

	assert.Equal(t, []string{"Ann"}, names(Search(c, "ann")))
	assert.Equal(t, []string{"Bo"}, names(Filter(c, Predicate{Field: models.KeyEvent, Value: "Quiz"})))
	assert.Equal(t, []string{"Bo", "Ann"}, names(Sort(c, SortSpec{Field: models.KeyName, Dir: Desc})))
	assert.Equal(t, map[string]int{"Hack": 1, "Quiz": 1}, Counts(AggregateByEvent(c)))
}

func TestSearchMatchesEmailCaseInsensitively(t *testing.T) {
	c := exampleCollection()
	assert.Equal(t, []string{"Bo"}, names(Search(c, "BO@X")))
	assert.Empty(t, Search(c, "zed"))
}

func TestFilterEmptyPredicateIsNoConstraint(t *testing.T) {
	c := exampleCollection()
	assert.Len(t, Filter(c, Predicate{Field: models.KeyEvent}), 2)
	assert.Empty(t, Filter(c,
		Predicate{Field: models.KeyEvent, Value: "Hack"},
		Predicate{Field: models.KeyCollege, Value: "PESU"},
	), "missing field falls into no filter bucket")
}

func TestSortUnknownFieldKeepsOrder(t *testing.T) {
	c := exampleCollection()
	c[0], c[1] = c[1], c[0]
	assert.Equal(t, []string{"Bo", "Ann"}, names(Sort(c, SortSpec{Field: "age", Dir: Asc})))
	assert.Equal(t, []string{"Bo", "Ann"}, names(Sort(c, SortSpec{})))
}

func TestSortIsLocaleAware(t *testing.T) {
	c := []models.Registration{{Name: "bob"}, {Name: "Émile"}, {Name: "Alice"}, {Name: "eve"}}
	got := names(Sort(c, SortSpec{Field: models.KeyName, Dir: Asc}))
	assert.Equal(t, []string{"Alice", "bob", "Émile", "eve"}, got)
}

func TestSortByTimeField(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := []models.Registration{
		{Name: "late", CreatedAt: base.Add(2 * time.Hour)},
		{Name: "zero"},
		{Name: "early", CreatedAt: base},
	}
	assert.Equal(t, []string{"zero", "early", "late"}, names(Sort(c, SortSpec{Field: models.KeyCreatedAt, Dir: Asc})))
	assert.Equal(t, []string{"late", "early", "zero"}, names(Sort(c, SortSpec{Field: models.KeyCreatedAt, Dir: Desc})))
}

func TestDeriveComposesSearchFilterSort(t *testing.T) {
	c := []models.Registration{
		{Name: "Cara", Email: "cara@x.com", Event: "Hack", College: "PESU"},
		{Name: "Anna", Email: "anna@x.com", Event: "Hack", College: "PESU"},
		{Name: "Hannah", Email: "h@x.com", Event: "Quiz", College: "PESU"},
		{Name: "Dan", Email: "dan@x.com", Event: "Hack", College: "RVCE"},
		{Name: "Joanna", Email: "jo@x.com", Event: "Hack", College: "PESU"},
	}
	st := State{}.WithSearch("an").WithEvent("Hack").WithCollege("PESU").ToggleSort(models.KeyName)

	assert.Equal(t, []string{"Anna", "Joanna"}, names(Derive(c, st)))
	assert.Equal(t, []string{"Joanna", "Anna"}, names(Derive(c, st.ToggleSort(models.KeyName))))
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	c := []models.Registration{{Name: "b"}, {Name: "a"}}
	_ = Derive(c, State{Sort: SortSpec{Field: models.KeyName, Dir: Asc}})
	assert.Equal(t, []string{"b", "a"}, names(c))
}

// genCollection draws small collections with many repeated values so that
// searches hit, filters collide and sorts see ties.
func genCollection() *rapid.Generator[[]models.Registration] {
	reg := rapid.Custom(func(t *rapid.T) models.Registration {
		return models.Registration{
			Name:    rapid.SampledFrom([]string{"Ann", "ann", "Bo", "Zoë", "Émile", "", "Dan"}).Draw(t, "name"),
			Email:   rapid.SampledFrom([]string{"ann@x.com", "bo@x.com", "DAN@Y.ORG", ""}).Draw(t, "email"),
			Event:   rapid.SampledFrom([]string{"Hack", "Quiz", "hack", ""}).Draw(t, "event"),
			College: rapid.SampledFrom([]string{"PESU", "RVCE", "pesu "}).Draw(t, "college"),
		}
	})
	return rapid.Custom(func(t *rapid.T) []models.Registration {
		regs := rapid.SliceOfN(reg, 0, 30).Draw(t, "regs")
		for i := range regs {
			regs[i].ID[0], regs[i].ID[1] = byte(i>>8), byte(i)
		}
		return regs
	})
}

func ids(regs []models.Registration) []uuid.UUID {
	out := make([]uuid.UUID, len(regs))
	for i, r := range regs {
		out[i] = r.ID
	}
	return out
}

func isSubsequence(sub, of []models.Registration) bool {
	j := 0
	for _, r := range of {
		if j < len(sub) && sub[j].ID == r.ID {
			j++
		}
	}
	return j == len(sub)
}

func TestPropertySearch(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := genCollection().Draw(rt, "c")
		term := rapid.SampledFrom([]string{"", "an", "ANN", "x.com", "ë", "q"}).Draw(rt, "term")

		got := Search(c, term)
		require.True(rt, isSubsequence(got, c))
		for _, r := range got {
			l := strings.ToLower(term)
			require.True(rt, strings.Contains(strings.ToLower(r.Name), l) || strings.Contains(strings.ToLower(r.Email), l))
		}
		require.Equal(rt, ids(c), ids(Search(c, "")))
	})
}

func TestPropertyFilter(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := genCollection().Draw(rt, "c")
		preds := []Predicate{
			{Field: models.KeyEvent, Value: rapid.SampledFrom([]string{"", "Hack", "hack"}).Draw(rt, "event")},
			{Field: models.KeyCollege, Value: rapid.SampledFrom([]string{"", "PESU", "pesu "}).Draw(rt, "college")},
		}

		once := Filter(c, preds...)
		require.True(rt, isSubsequence(once, c))
		for _, r := range once {
			for _, p := range preds {
				if p.Value != "" {
					require.Equal(rt, p.Value, r.Text(p.Field))
				}
			}
		}
		require.Equal(rt, ids(once), ids(Filter(once, preds...)), "filter is idempotent")
	})
}

func TestPropertySort(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := genCollection().Draw(rt, "c")
		field := rapid.SampledFrom([]string{models.KeyName, models.KeyEmail, models.KeyEvent, models.KeyCollege}).Draw(rt, "field")
		dir := rapid.SampledFrom([]Direction{Asc, Desc}).Draw(rt, "dir")
		spec := SortSpec{Field: field, Dir: dir}

		got := Sort(c, spec)
		require.ElementsMatch(rt, ids(c), ids(got), "sort is a permutation")

		col := newCollator()
		pos := make(map[uuid.UUID]int, len(c))
		for i, r := range c {
			pos[r.ID] = i
		}
		for i := 1; i < len(got); i++ {
			cmp := col.CompareString(got[i-1].Text(field), got[i].Text(field))
			if dir == Desc {
				cmp = -cmp
			}
			require.LessOrEqual(rt, cmp, 0, "adjacent pair out of order")
			if cmp == 0 {
				require.Less(rt, pos[got[i-1].ID], pos[got[i].ID], "ties keep input order")
			}
		}
		require.Equal(rt, ids(got), ids(Sort(got, spec)), "sorting twice is stable")
	})
}

func TestPropertyAggregationSumsToTotal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := genCollection().Draw(rt, "c")
		for _, buckets := range [][]Bucket{AggregateByEvent(c), AggregateByCollege(c)} {
			sum := 0
			for _, b := range buckets {
				require.Positive(rt, b.Count)
				sum += b.Count
			}
			require.Equal(rt, len(c), sum)
		}
	})
}
