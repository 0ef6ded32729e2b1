// Package fetcher downloads influencer tables published as CSV, such as a
// Google Sheet shared with "publish to the web".
package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"influencers/internal/dataset"
)

var (
	ErrTooLarge     = errors.New("response_too_large")
	ErrTooManyRedir = errors.New("too_many_redirects")
	ErrBadStatus    = errors.New("bad_status")
	ErrNotCSV       = errors.New("not_csv")
)

type Fetcher struct {
	Client   *http.Client
	MaxBytes int64
}

func New(maxBytes int64) *Fetcher {
	client := &http.Client{
		Timeout: 15 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return ErrTooManyRedir
			}
			return nil
		},
	}
	return &Fetcher{Client: client, MaxBytes: maxBytes}
}

// Fetch downloads url and parses the body as CSV. Sheets that are not
// public answer with an HTML sign-in page; that page's title is reported
// with ErrNotCSV.
func (f *Fetcher) Fetch(ctx context.Context, url string) (dataset.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return dataset.Table{}, err
	}
	req.Header.Set("User-Agent", "influencers/1.0")
	req.Header.Set("Accept", "text/csv")

	resp, err := f.Client.Do(req)
	if err != nil {
		return dataset.Table{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return dataset.Table{}, ErrBadStatus
	}

	limited := io.LimitReader(resp.Body, f.MaxBytes+1)
	buf, err := io.ReadAll(limited)
	if err != nil {
		return dataset.Table{}, err
	}
	if int64(len(buf)) > f.MaxBytes {
		return dataset.Table{}, ErrTooLarge
	}

	if isHTML(resp.Header.Get("Content-Type")) {
		return dataset.Table{}, fmt.Errorf("%w: %s", ErrNotCSV, pageTitle(buf))
	}
	return dataset.ReadCSV(bytes.NewReader(buf))
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html"
}

func pageTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "html page"
	}
	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	if title == "" {
		return "html page"
	}
	return title
}

// CSVSource adapts a Fetcher to dataset.Source.
type CSVSource struct {
	Fetcher *Fetcher
	URL     string
}

func (s CSVSource) Load(ctx context.Context) (dataset.Table, error) {
	return s.Fetcher.Fetch(ctx, s.URL)
}
