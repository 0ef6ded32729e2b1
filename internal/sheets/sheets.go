// Package sheets reads influencer tables from Google Sheets.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"influencers/internal/dataset"
)

var (
	ErrSpreadsheetNotFound = errors.New("spreadsheet_not_found")
	ErrWorksheetNotFound   = errors.New("worksheet_not_found")
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Scopes needed to find a spreadsheet by title and read its values.
var Scopes = []string{
	gsheets.SpreadsheetsReadonlyScope,
	drive.DriveMetadataReadonlyScope,
}

type Client struct {
	Sheets *gsheets.Service
	Drive  *drive.Service
}

// NewFromCredentialsFile authenticates with a service-account key file.
func NewFromCredentialsFile(ctx context.Context, path string) (*Client, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return New(ctx, option.WithCredentials(creds))
}

func New(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	sheetsSvc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{Sheets: sheetsSvc, Drive: driveSvc}, nil
}

// Resolve returns the spreadsheet ID for ref, searching Drive by title when
// ref has no ID. Only spreadsheets shared with the caller are visible.
func (c *Client) Resolve(ctx context.Context, ref Ref) (string, error) {
	if ref.ID != "" {
		return ref.ID, nil
	}
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(ref.Title), spreadsheetMimeType)
	list, err := c.Drive.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("%w: %s", ErrSpreadsheetNotFound, ref)
	}
	return list.Files[0].Id, nil
}

// Worksheet reads every populated cell of the tab named title.
func (c *Client) Worksheet(ctx context.Context, spreadsheetID, title string) (dataset.Table, error) {
	meta, err := c.Sheets.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		if isNotFound(err) {
			return dataset.Table{}, fmt.Errorf("%w: %s", ErrSpreadsheetNotFound, spreadsheetID)
		}
		return dataset.Table{}, err
	}
	found := false
	for _, s := range meta.Sheets {
		if s.Properties != nil && s.Properties.Title == title {
			found = true
			break
		}
	}
	if !found {
		return dataset.Table{}, fmt.Errorf("%w: %s", ErrWorksheetNotFound, title)
	}

	vr, err := c.Sheets.Spreadsheets.Values.Get(spreadsheetID, quoteSheet(title)).
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return dataset.Table{}, err
	}
	if len(vr.Values) == 0 {
		return dataset.Table{}, dataset.ErrEmptyTable
	}
	return dataset.FromValues(vr.Values), nil
}

// Source loads one worksheet of one spreadsheet.
type Source struct {
	Client    *Client
	Ref       Ref
	Worksheet string
}

func (s Source) Load(ctx context.Context) (dataset.Table, error) {
	id, err := s.Client.Resolve(ctx, s.Ref)
	if err != nil {
		return dataset.Table{}, err
	}
	return s.Client.Worksheet(ctx, id, s.Worksheet)
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

// A1 notation: a bare tab title is the whole tab; quotes are doubled.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
