// Package sheetsclient wraps the Google Sheets API for the attendance
// spreadsheet. The spreadsheet is the system of record: the roster tab, the
// two rotating schedule tabs and one attendance tab per month all live in the
// single configured spreadsheet.
package sheetsclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client wraps the Google Sheets API client for a single spreadsheet.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
	timeout       time.Duration
}

// NewClient creates a Sheets client authenticated as a service account. The
// bot runs unattended, so the interactive OAuth flow is not an option here.
func NewClient(ctx context.Context, credentialsJSON []byte, spreadsheetID string, timeout time.Duration) (*Client, error) {
	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service:       service,
		spreadsheetID: spreadsheetID,
		timeout:       timeout,
	}, nil
}

// LoadCredentials resolves service account credentials. GOOGLE_CREDENTIALS_JSON
// takes priority and may hold either raw JSON or base64 of it, which is how
// hosting platforms that strip newlines from env values deliver the key.
// Otherwise the configured credentials file is read.
func LoadCredentials(credentialsFile string) ([]byte, error) {
	if env := os.Getenv("GOOGLE_CREDENTIALS_JSON"); env != "" {
		if decoded, err := base64.StdEncoding.DecodeString(env); err == nil {
			return decoded, nil
		}
		return []byte(env), nil
	}

	if credentialsFile == "" {
		return nil, fmt.Errorf("no credentials: set GOOGLE_CREDENTIALS_JSON or credentialsFile")
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return data, nil
}

// Service returns the underlying sheets service for direct API access.
func (c *Client) Service() *sheets.Service {
	return c.service
}

// SpreadsheetID returns the configured spreadsheet.
func (c *Client) SpreadsheetID() string {
	return c.spreadsheetID
}

func (c *Client) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// getValues reads values from a spreadsheet range.
func (c *Client) getValues(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	callCtx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, sheetRange).Context(callCtx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values for %s: %w", sheetRange, err)
	}

	return resp.Values, nil
}

// updateValues overwrites a spreadsheet range.
func (c *Client) updateValues(ctx context.Context, sheetRange string, values [][]interface{}) error {
	callCtx, cancel := c.callCtx(ctx)
	defer cancel()

	_, err := c.service.Spreadsheets.Values.Update(c.spreadsheetID, sheetRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(callCtx).Do()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", sheetRange, err)
	}

	return nil
}

// appendRows appends rows after the last non-empty row of a range.
func (c *Client) appendRows(ctx context.Context, sheetRange string, values [][]interface{}) error {
	callCtx, cancel := c.callCtx(ctx)
	defer cancel()

	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, sheetRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(callCtx).Do()
	if err != nil {
		return fmt.Errorf("failed to append rows to %s: %w", sheetRange, err)
	}

	return nil
}

// batchUpdate runs structural requests (add sheet, formatting) against the
// spreadsheet.
func (c *Client) batchUpdate(ctx context.Context, requests []*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	callCtx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, err := c.service.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(callCtx).Do()
	if err != nil {
		return nil, fmt.Errorf("batch update failed: %w", err)
	}

	return resp, nil
}

// sheetID returns the numeric id of a tab, or -1 when the tab does not exist.
func (c *Client) sheetID(ctx context.Context, title string) (int64, error) {
	callCtx, cancel := c.callCtx(ctx)
	defer cancel()

	spreadsheet, err := c.service.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(callCtx).Do()
	if err != nil {
		return -1, fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == title {
			return sheet.Properties.SheetId, nil
		}
	}
	return -1, nil
}

// addSheet creates a new tab and returns its numeric id.
func (c *Client) addSheet(ctx context.Context, title string) (int64, error) {
	resp, err := c.batchUpdate(ctx, []*sheets.Request{{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{Title: title},
		},
	}})
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet %s: %w", title, err)
	}

	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("unexpected response from create sheet")
	}

	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// cellString reads a cell from a raw API row, tolerating short rows and
// non-string cells.
func cellString(row []interface{}, index int) string {
	if index >= len(row) {
		return ""
	}
	if s, ok := row[index].(string); ok {
		return s
	}
	return fmt.Sprintf("%v", row[index])
}
