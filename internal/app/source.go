// Package app builds the data source shared by the dashboard and the worker.
package app

import (
	"context"
	"fmt"

	"influencers/internal/config"
	"influencers/internal/dataset"
	"influencers/internal/fetcher"
	"influencers/internal/sheets"
)

// NewSource builds the source named by cfg.SourceKind.
func NewSource(ctx context.Context, cfg config.Config) (dataset.Source, error) {
	switch cfg.SourceKind() {
	case config.SourceCSVURL:
		url, err := csvURL(cfg)
		if err != nil {
			return nil, err
		}
		return fetcher.CSVSource{Fetcher: fetcher.New(cfg.MaxCSVBytes), URL: url}, nil
	case config.SourceFile:
		return dataset.FileSource{Path: cfg.DataFile}, nil
	case config.SourceGoogleSheet:
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.SourceKind())
	}
	client, err := sheets.NewFromCredentialsFile(ctx, cfg.GoogleCredentialsFile)
	if err != nil {
		return nil, err
	}
	return sheets.Source{
		Client:    client,
		Ref:       sheets.ParseRef(cfg.GoogleSheet),
		Worksheet: cfg.GoogleWorksheet,
	}, nil
}

// csvURL prefers SHEET_CSV_URL and otherwise derives the export link from a
// spreadsheet ID or URL in GOOGLE_SHEET. A title cannot be exported without
// the Sheets API.
func csvURL(cfg config.Config) (string, error) {
	if cfg.SheetCSVURL != "" {
		return cfg.SheetCSVURL, nil
	}
	ref := sheets.ParseRef(cfg.GoogleSheet)
	if ref.ID == "" {
		return "", fmt.Errorf("csv_url source needs SHEET_CSV_URL or a spreadsheet id in GOOGLE_SHEET, got title %q", ref.Title)
	}
	return sheets.CSVExportURL(ref.ID, cfg.GoogleSheetGID), nil
}
