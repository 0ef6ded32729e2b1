package sheets

import (
	"net/url"
	"strconv"
	"strings"
)

// Ref identifies a spreadsheet either by ID or by its title in Drive.
type Ref struct {
	ID    string
	Title string
}

func (r Ref) String() string {
	if r.Title != "" {
		return r.Title
	}
	return r.ID
}

// ParseRef accepts a spreadsheet URL (".../spreadsheets/d/<id>/edit"), an
// "id:<id>" literal, or a plain title.
func ParseRef(raw string) Ref {
	raw = strings.TrimSpace(raw)
	if id, ok := strings.CutPrefix(raw, "id:"); ok {
		return Ref{ID: strings.TrimSpace(id)}
	}
	if id := idFromURL(raw); id != "" {
		return Ref{ID: id}
	}
	return Ref{Title: raw}
}

func idFromURL(raw string) string {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "spreadsheets" && parts[i+1] == "d" {
			return parts[i+2]
		}
	}
	return ""
}

// CSVExportURL is the download link for one worksheet as CSV. gid selects
// the tab; the first tab has gid 0.
func CSVExportURL(id string, gid int64) string {
	q := url.Values{}
	q.Set("format", "csv")
	q.Set("gid", strconv.FormatInt(gid, 10))
	return "https://docs.google.com/spreadsheets/d/" + url.PathEscape(id) + "/export?" + q.Encode()
}
