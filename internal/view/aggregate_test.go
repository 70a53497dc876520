package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sirdesai22/registration-dashboard/internal/models"
)

func analyticsFixture() []models.Registration {
	return []models.Registration{
		{Event: "Quiz", College: "PESU"},
		{Event: "Hack", College: "RVCE"},
		{Event: "Hack", College: "PESU"},
		{Event: "hack", College: "PESU "},
		{Event: "Art", College: "PESU"},
		{Event: "Hack", College: "BMSCE"},
	}
}

func TestCountByFirstOccurrenceOrderAndExactKeys(t *testing.T) {
	got := AggregateByEvent(analyticsFixture())
	assert.Equal(t, []Bucket{{"Quiz", 1}, {"Hack", 3}, {"hack", 1}, {"Art", 1}}, got)

	colleges := Counts(AggregateByCollege(analyticsFixture()))
	assert.Equal(t, 3, colleges["PESU"])
	assert.Equal(t, 1, colleges["PESU "], "no whitespace normalisation")
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, []string{"PESU", "RVCE", "PESU ", "BMSCE"}, Distinct(analyticsFixture(), models.KeyCollege))
	assert.Empty(t, Distinct(nil, models.KeyEvent))
}

func TestAnalyticsDefaultSortsByCountDesc(t *testing.T) {
	rep := Analytics(analyticsFixture(), DefaultAnalyticsQuery())
	assert.Equal(t, 6, rep.Total)
	assert.Equal(t, []Bucket{{"Hack", 3}, {"Quiz", 1}, {"hack", 1}, {"Art", 1}}, rep.Events)
}

func TestAnalyticsSortByEventAsc(t *testing.T) {
	rep := Analytics(analyticsFixture(), AnalyticsQuery{SortBy: SortByEvent, Dir: Asc})
	assert.Equal(t, []string{"Art", "hack", "Hack", "Quiz"}, bucketKeys(rep.Events))
}

func TestAnalyticsFilterKeepsTotal(t *testing.T) {
	rep := Analytics(analyticsFixture(), AnalyticsQuery{Event: "Hack", SortBy: SortByCount, Dir: Asc})
	assert.Equal(t, 6, rep.Total)
	assert.Equal(t, []Bucket{{"Hack", 3}}, rep.Events)
}

func TestAnalyticsUnsorted(t *testing.T) {
	rep := Analytics(analyticsFixture(), AnalyticsQuery{})
	assert.Equal(t, []string{"Quiz", "Hack", "hack", "Art"}, bucketKeys(rep.Events))
}

func TestCharts(t *testing.T) {
	recs := make([]models.Registration, 0, 8)
	for _, c := range []string{"A", "B", "C", "D", "E", "F", "G", "A"} {
		recs = append(recs, models.Registration{College: c, Event: "Hack"})
	}
	bar, pie := Charts(recs)

	assert.Equal(t, "Event Distribution", bar.Title)
	assert.Equal(t, []string{"Hack"}, bar.Labels)
	assert.Equal(t, []int{8}, bar.Values)

	assert.Equal(t, "College Distribution", pie.Title)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F", "G"}, pie.Labels)
	assert.Equal(t, 2, pie.Values[0])
	assert.Equal(t, "#fff", pie.Colors[6], "palette cycles")
}

func bucketKeys(bs []Bucket) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.Key
	}
	return out
}
