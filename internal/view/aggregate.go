package view

import (
	"slices"

	"github.com/sirdesai22/registration-dashboard/internal/models"
)

// Bucket is the number of records sharing one exact field value.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// CountBy counts records per exact value of field. Buckets come back in the
// order each value first appears. Values are not normalised.
func CountBy(records []models.Registration, field string) []Bucket {
	index := make(map[string]int)
	var buckets []Bucket
	for _, r := range records {
		key := r.Text(field)
		if i, ok := index[key]; ok {
			buckets[i].Count++
			continue
		}
		index[key] = len(buckets)
		buckets = append(buckets, Bucket{Key: key, Count: 1})
	}
	return buckets
}

func AggregateByEvent(records []models.Registration) []Bucket {
	return CountBy(records, models.KeyEvent)
}

func AggregateByCollege(records []models.Registration) []Bucket {
	return CountBy(records, models.KeyCollege)
}

// Counts flattens buckets into a map.
func Counts(buckets []Bucket) map[string]int {
	m := make(map[string]int, len(buckets))
	for _, b := range buckets {
		m[b.Key] = b.Count
	}
	return m
}

// Distinct lists the unique values of field in first-occurrence order.
func Distinct(records []models.Registration, field string) []string {
	buckets := CountBy(records, field)
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Key
	}
	return out
}

const (
	SortByEvent = "event"
	SortByCount = "count"
)

// AnalyticsQuery selects and orders the per-event table.
type AnalyticsQuery struct {
	Event  string
	SortBy string
	Dir    Direction
}

// DefaultAnalyticsQuery sorts by count, largest first.
func DefaultAnalyticsQuery() AnalyticsQuery {
	return AnalyticsQuery{SortBy: SortByCount, Dir: Desc}
}

type AnalyticsReport struct {
	Total  int      `json:"total"`
	Events []Bucket `json:"events"`
}

// Analytics counts registrations per event over the whole collection, then
// filters and sorts the resulting rows. Total always covers every record.
func Analytics(records []models.Registration, q AnalyticsQuery) AnalyticsReport {
	rows := AggregateByEvent(records)
	if q.Event != "" {
		rows = slices.DeleteFunc(rows, func(b Bucket) bool { return b.Key != q.Event })
	}

	var cmp func(a, b Bucket) int
	switch q.SortBy {
	case SortByEvent:
		col := newCollator()
		cmp = func(a, b Bucket) int { return col.CompareString(a.Key, b.Key) }
	case SortByCount:
		cmp = func(a, b Bucket) int { return a.Count - b.Count }
	}
	if cmp != nil {
		if q.Dir == Desc {
			slices.SortStableFunc(rows, func(a, b Bucket) int { return cmp(b, a) })
		} else {
			slices.SortStableFunc(rows, cmp)
		}
	}
	return AnalyticsReport{Total: len(records), Events: rows}
}

// Palette holds the grey shades cycled across chart segments.
var Palette = []string{"#fff", "#ccc", "#999", "#666", "#333", "#222"}

// ChartSeries is render-agnostic chart data.
type ChartSeries struct {
	Title  string   `json:"title"`
	Label  string   `json:"label"`
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
	Colors []string `json:"colors"`
}

// Charts builds the event bar chart and the college pie chart from the full
// collection.
func Charts(records []models.Registration) (bar, pie ChartSeries) {
	bar = series("Event Distribution", "Registrations by Event", AggregateByEvent(records))
	pie = series("College Distribution", "Registrations by College", AggregateByCollege(records))
	return bar, pie
}

func series(title, label string, buckets []Bucket) ChartSeries {
	s := ChartSeries{
		Title:  title,
		Label:  label,
		Labels: make([]string, len(buckets)),
		Values: make([]int, len(buckets)),
		Colors: make([]string, len(buckets)),
	}
	for i, b := range buckets {
		s.Labels[i] = b.Key
		s.Values[i] = b.Count
		s.Colors[i] = Palette[i%len(Palette)]
	}
	return s
}
