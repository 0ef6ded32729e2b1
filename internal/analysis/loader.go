package analysis

import (
	"context"
	"time"

	"influencers/internal/dataset"
)

// Loader reads a source and builds a report from it. Rows whose Followers
// value cannot be read are dropped, as the dashboard has always done.
type Loader struct {
	Source dataset.Source
	TopN   int
	Now    func() time.Time
}

func (l Loader) Load(ctx context.Context) (Report, error) {
	tbl, err := l.Source.Load(ctx)
	if err != nil {
		return Report{}, err
	}
	ds, err := dataset.Clean(tbl, dataset.CleanOptions{DropUnparsed: true})
	if err != nil {
		return Report{}, err
	}
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	return BuildReport(ds, l.TopN, now().UTC()), nil
}
