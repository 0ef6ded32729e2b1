// Package analysis computes the summaries shown by the analyze command and
// the dashboard: per-platform counts and follower sums, headline metrics, the
// top influencers and the quick insights.
package analysis

import (
	"sort"
	"time"

	"influencers/internal/dataset"
	"influencers/internal/label"
)

// Placeholder used when an insight cannot be computed.
const NotAvailable = "N/A"

type Bucket struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Summary struct {
	TotalInfluencers int     `json:"total_influencers"`
	TotalFollowers   float64 `json:"total_followers"`
	AverageFollowers float64 `json:"average_followers"`
}

// Summarize counts every record; follower totals and the mean only use valid
// counts.
func Summarize(ds dataset.Dataset) Summary {
	s := Summary{TotalInfluencers: ds.Len()}
	valid := 0
	for _, r := range ds.Records {
		if !r.Followers.Valid {
			continue
		}
		s.TotalFollowers += r.Followers.Value
		valid++
	}
	if valid > 0 {
		s.AverageFollowers = s.TotalFollowers / float64(valid)
	}
	return s
}

// ValueCounts counts records per non-blank value of column, most frequent
// first. Ties keep first-seen order.
func ValueCounts(ds dataset.Dataset, column string) []Bucket {
	return group(ds, column, func(dataset.Record) (float64, bool) { return 1, true })
}

// SumFollowersBy sums valid follower counts per non-blank value of column,
// largest first. A group whose counts are all absent sums to zero.
func SumFollowersBy(ds dataset.Dataset, column string) []Bucket {
	return group(ds, column, func(r dataset.Record) (float64, bool) {
		return r.Followers.Value, r.Followers.Valid
	})
}

func group(ds dataset.Dataset, column string, value func(dataset.Record) (float64, bool)) []Bucket {
	if !ds.Has(column) {
		return nil
	}
	pos := map[string]int{}
	buckets := []Bucket{}
	for _, r := range ds.Records {
		key := label.Value(r.Get(column))
		if key == "" {
			continue
		}
		i, ok := pos[key]
		if !ok {
			i = len(buckets)
			pos[key] = i
			buckets = append(buckets, Bucket{Label: key})
		}
		if v, ok := value(r); ok {
			buckets[i].Value += v
		}
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Value > buckets[j].Value
	})
	return buckets
}

// TopByFollowers returns up to n records with the largest counts. Records
// with absent counts sort last.
func TopByFollowers(ds dataset.Dataset, n int) []dataset.Record {
	sorted := make([]dataset.Record, len(ds.Records))
	copy(sorted, ds.Records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Followers, sorted[j].Followers
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Value > b.Value
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

type Insights struct {
	TopPlatform           string  `json:"top_platform"`
	SecondPlatform        string  `json:"second_platform"`
	TopTwoPlatformPercent float64 `json:"top_two_platform_percent"`
	TopNiche              string  `json:"top_niche"`
	SecondNiche           string  `json:"second_niche"`
}

// ComputeInsights reports the share of influencers on the two most common
// platforms and the two most common niches. With a single platform its own
// share is reported and the second platform reads "any other".
func ComputeInsights(ds dataset.Dataset) Insights {
	in := Insights{
		TopPlatform:    NotAvailable,
		SecondPlatform: NotAvailable,
		TopNiche:       NotAvailable,
		SecondNiche:    NotAvailable,
	}
	total := ds.Len()
	if platforms := ValueCounts(ds, dataset.ColumnPlatform); total > 0 && len(platforms) > 0 {
		in.TopPlatform = platforms[0].Label
		top := platforms[0].Value
		if len(platforms) > 1 {
			in.SecondPlatform = platforms[1].Label
			top += platforms[1].Value
		} else {
			in.SecondPlatform = "any other"
		}
		in.TopTwoPlatformPercent = top / float64(total) * 100
	}
	niches := ValueCounts(ds, dataset.ColumnNiche)
	if len(niches) > 0 {
		in.TopNiche = niches[0].Label
	}
	if len(niches) > 1 {
		in.SecondNiche = niches[1].Label
	}
	return in
}

// Row is a record flattened for display and JSON.
type Row struct {
	Cells     map[string]string `json:"cells"`
	Followers *float64          `json:"followers"`
}

// Report is everything the dashboard renders.
type Report struct {
	GeneratedAt       time.Time `json:"generated_at"`
	Columns           []string  `json:"columns"`
	Summary           Summary   `json:"summary"`
	PlatformCounts    []Bucket  `json:"platform_counts"`
	PlatformFollowers []Bucket  `json:"platform_followers"`
	Top               []Row     `json:"top"`
	Rows              []Row     `json:"rows"`
	Insights          Insights  `json:"insights"`
	MissingColumns    []string  `json:"missing_columns"`
	DroppedRows       int       `json:"dropped_rows"`
}

// BuildReport assembles a report over ds with the topN largest accounts.
func BuildReport(ds dataset.Dataset, topN int, now time.Time) Report {
	rep := Report{
		GeneratedAt:       now,
		Columns:           ds.Columns,
		Summary:           Summarize(ds),
		PlatformCounts:    ValueCounts(ds, dataset.ColumnPlatform),
		PlatformFollowers: SumFollowersBy(ds, dataset.ColumnPlatform),
		Top:               rows(TopByFollowers(ds, topN)),
		Rows:              rows(ds.Records),
		Insights:          ComputeInsights(ds),
		MissingColumns:    []string{},
		DroppedRows:       ds.Dropped,
	}
	for _, col := range []string{dataset.ColumnPlatform, dataset.ColumnNiche} {
		if !ds.Has(col) {
			rep.MissingColumns = append(rep.MissingColumns, col)
		}
	}
	return rep
}

// Missing reports whether column was absent from the source.
func (r Report) Missing(column string) bool {
	for _, c := range r.MissingColumns {
		if c == column {
			return true
		}
	}
	return false
}

func rows(records []dataset.Record) []Row {
	out := make([]Row, 0, len(records))
	for _, r := range records {
		row := Row{Cells: r.Cells}
		if r.Followers.Valid {
			v := r.Followers.Value
			row.Followers = &v
		}
		out = append(out, row)
	}
	return out
}
