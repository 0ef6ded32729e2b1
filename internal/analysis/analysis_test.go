package analysis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"influencers/internal/dataset"
)

func sample(t *testing.T, opts dataset.CleanOptions) dataset.Dataset {
	t.Helper()
	tbl := dataset.FromStrings([][]string{
		{"Name", "Platform", "Niche", "Followers"},
		{"Ada", "YouTube", "Education", "1.2M"},
		{"Ben", "TikTok", "Comedy", "500K"},
		{"Cy", "YouTube", "Education", "N/A"},
		{"Dee", "Instagram", "Art", "3K"},
		{"Eve", "TikTok", "Education", "2M"},
		{"Fay", "", "Comedy", "10"},
	})
	ds, err := dataset.Clean(tbl, opts)
	require.NoError(t, err)
	return ds
}

func TestSummarize(t *testing.T) {
	s := Summarize(sample(t, dataset.CleanOptions{}))

	assert.Equal(t, 6, s.TotalInfluencers)
	assert.Equal(t, 3_703_010.0, s.TotalFollowers)
	assert.InDelta(t, 3_703_010.0/5, s.AverageFollowers, 1e-6)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(dataset.Dataset{Columns: []string{"Followers"}})
	assert.Equal(t, Summary{}, s)
}

func TestValueCounts(t *testing.T) {
	got := ValueCounts(sample(t, dataset.CleanOptions{}), dataset.ColumnPlatform)

	assert.Equal(t, []Bucket{
		{Label: "YouTube", Value: 2},
		{Label: "TikTok", Value: 2},
		{Label: "Instagram", Value: 1},
	}, got)
}

func TestValueCountsMissingColumn(t *testing.T) {
	ds := dataset.Dataset{Columns: []string{"Followers"}}
	assert.Nil(t, ValueCounts(ds, dataset.ColumnPlatform))
}

func TestSumFollowersBy(t *testing.T) {
	got := SumFollowersBy(sample(t, dataset.CleanOptions{}), dataset.ColumnPlatform)

	assert.Equal(t, []Bucket{
		{Label: "TikTok", Value: 2_500_000},
		{Label: "YouTube", Value: 1_200_000},
		{Label: "Instagram", Value: 3_000},
	}, got)
}

func TestSumFollowersByAllAbsentGroup(t *testing.T) {
	tbl := dataset.FromStrings([][]string{
		{"Platform", "Followers"},
		{"X", "??"},
		{"Y", "5"},
	})
	ds, err := dataset.Clean(tbl, dataset.CleanOptions{})
	require.NoError(t, err)

	assert.Equal(t, []Bucket{{Label: "Y", Value: 5}, {Label: "X", Value: 0}}, SumFollowersBy(ds, "Platform"))
}

func TestTopByFollowers(t *testing.T) {
	top := TopByFollowers(sample(t, dataset.CleanOptions{}), 10)

	require.Len(t, top, 6)
	names := make([]string, len(top))
	for i, r := range top {
		names[i] = r.Get("Name")
	}
	assert.Equal(t, []string{"Eve", "Ada", "Ben", "Dee", "Fay", "Cy"}, names)

	assert.Len(t, TopByFollowers(sample(t, dataset.CleanOptions{}), 2), 2)
}

func TestComputeInsights(t *testing.T) {
	in := ComputeInsights(sample(t, dataset.CleanOptions{DropUnparsed: true}))

	assert.Equal(t, "TikTok", in.TopPlatform)
	assert.Equal(t, "YouTube", in.SecondPlatform)
	assert.InDelta(t, 60.0, in.TopTwoPlatformPercent, 1e-9)
	assert.Equal(t, "Education", in.TopNiche)
	assert.Equal(t, "Comedy", in.SecondNiche)
}

func TestComputeInsightsSinglePlatform(t *testing.T) {
	tbl := dataset.FromStrings([][]string{
		{"Platform", "Followers"},
		{"YouTube", "1K"},
		{"YouTube", "2K"},
	})
	ds, err := dataset.Clean(tbl, dataset.CleanOptions{})
	require.NoError(t, err)

	in := ComputeInsights(ds)
	assert.Equal(t, "YouTube", in.TopPlatform)
	assert.Equal(t, "any other", in.SecondPlatform)
	assert.Equal(t, 100.0, in.TopTwoPlatformPercent)
	assert.Equal(t, NotAvailable, in.TopNiche)
	assert.Equal(t, NotAvailable, in.SecondNiche)
}

func TestBuildReport(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tbl := dataset.FromStrings([][]string{
		{"Name", "Followers"},
		{"Ada", "1K"},
		{"Ben", "bad"},
	})
	ds, err := dataset.Clean(tbl, dataset.CleanOptions{DropUnparsed: true})
	require.NoError(t, err)

	rep := BuildReport(ds, 10, now)
	assert.Equal(t, now, rep.GeneratedAt)
	assert.Equal(t, []string{"Platform", "Niche"}, rep.MissingColumns)
	assert.True(t, rep.Missing("Platform"))
	assert.Equal(t, 1, rep.DroppedRows)
	require.Len(t, rep.Top, 1)
	require.NotNil(t, rep.Top[0].Followers)
	assert.Equal(t, 1_000.0, *rep.Top[0].Followers)

	b, err := json.Marshal(rep)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, key := range []string{"generated_at", "summary", "platform_counts", "platform_followers", "top", "insights", "missing_columns"} {
		assert.Contains(t, m, key)
	}
}
