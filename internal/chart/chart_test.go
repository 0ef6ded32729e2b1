package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"influencers/internal/analysis"
)

var buckets = []analysis.Bucket{
	{Label: "YouTube", Value: 4},
	{Label: "TikTok", Value: 2},
	{Label: "Instagram", Value: 1},
}

func TestSaveBarChartWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "platform_distribution_chart.png")

	require.NoError(t, SaveBarChart(buckets, path, PlatformDistribution()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(b), 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), b[:8])
}

func TestSaveBarChartNoData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	err := SaveBarChart(nil, path, PlatformDistribution())
	require.ErrorIs(t, err, ErrNoData)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRenderPage(t *testing.T) {
	rep := analysis.Report{
		PlatformCounts:    buckets,
		PlatformFollowers: []analysis.Bucket{{Label: "YouTube", Value: 1_200_000}},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, "Platforms", PlatformCharts(rep)...))

	html := buf.String()
	assert.Contains(t, html, "Influencers by Platform")
	assert.Contains(t, html, "Total Followers by Platform")
	assert.Contains(t, html, "Instagram")
}
