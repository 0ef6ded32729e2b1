package fetcher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchSuccess(t *testing.T) {
	body := []byte("Name,Platform,Followers\nAda,YouTube,1.2M\nBen,TikTok,500K\n")
	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewReader(body)),
				Header:     http.Header{"Content-Type": []string{"text/csv; charset=utf-8"}},
			}, nil
		}),
	}
	f := New(1_000_000)
	f.Client = client
	tbl, err := CSVSource{Fetcher: f, URL: "http://example.com/export?format=csv"}.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tbl.Header) != 3 || tbl.Header[2] != "Followers" {
		t.Fatalf("header mismatch: %v", tbl.Header)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}
}

func TestFetchBadStatus(t *testing.T) {
	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusNotFound,
				Body:       io.NopCloser(bytes.NewReader(nil)),
				Header:     http.Header{},
			}, nil
		}),
	}
	f := New(1_000_000)
	f.Client = client
	_, err := f.Fetch(context.Background(), "http://example.com/404")
	if err != ErrBadStatus {
		t.Fatalf("expected ErrBadStatus, got %v", err)
	}
}

func TestFetchTooLarge(t *testing.T) {
	large := "Followers\n" + strings.Repeat("1K\n", 1000)
	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewReader([]byte(large))),
				Header:     http.Header{},
			}, nil
		}),
	}
	f := New(100)
	f.Client = client
	_, err := f.Fetch(context.Background(), "http://example.com/large")
	if err != ErrTooLarge {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestFetchHTMLPage(t *testing.T) {
	body := []byte("<html><head><title> Google Sheets:\n Sign-in </title></head><body>Sign in</body></html>")
	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewReader(body)),
				Header:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
			}, nil
		}),
	}
	f := New(1_000_000)
	f.Client = client
	_, err := f.Fetch(context.Background(), "http://example.com/private")
	if !errors.Is(err, ErrNotCSV) {
		t.Fatalf("expected ErrNotCSV, got %v", err)
	}
	if !strings.Contains(err.Error(), "Google Sheets: Sign-in") {
		t.Fatalf("expected page title in error, got %v", err)
	}
}

func TestFetchRedirectLoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/again", http.StatusFound)
	}))
	defer srv.Close()

	_, err := New(1_000_000).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrTooManyRedir) {
		t.Fatalf("expected ErrTooManyRedir, got %v", err)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
