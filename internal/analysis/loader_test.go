package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"influencers/internal/dataset"
)

type staticSource struct {
	tbl dataset.Table
	err error
}

func (s staticSource) Load(context.Context) (dataset.Table, error) {
	return s.tbl, s.err
}

func TestLoaderLoad(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	l := Loader{
		Source: staticSource{tbl: dataset.FromStrings([][]string{
			{"Name", "Platform", "Followers"},
			{"Ada", "YouTube", "2K"},
			{"Ben", "YouTube", "oops"},
			{"Cy", "TikTok", "1K"},
		})},
		TopN: 1,
		Now:  func() time.Time { return now },
	}

	rep, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, now, rep.GeneratedAt)
	assert.Equal(t, 2, rep.Summary.TotalInfluencers)
	assert.Equal(t, 1, rep.DroppedRows)
	require.Len(t, rep.Top, 1)
	assert.Equal(t, "Ada", rep.Top[0].Cells["Name"])
	assert.Len(t, rep.Rows, 2)
}

func TestLoaderPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := Loader{Source: staticSource{err: boom}}.Load(context.Background())
	require.ErrorIs(t, err, boom)

	_, err = Loader{Source: staticSource{tbl: dataset.FromStrings([][]string{{"Name"}, {"Ada"}})}}.Load(context.Background())
	require.ErrorIs(t, err, dataset.ErrMissingColumn)
}
