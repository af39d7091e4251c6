package store

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/riaddisiena/backend/config"
	"github.com/riaddisiena/backend/logger"
)

func init() {
	config.LoadEnv()
}

// Tables is the surface controllers depend on. The first row of every table
// is the header and defines the field names.
type Tables interface {
	ReadTable(ctx context.Context, name string) ([][]string, error)
	AppendRows(ctx context.Context, name string, rows [][]string) error
	UpdateRow(ctx context.Context, name string, rowIndex int, cells []string) error
}

// Client reads and writes named tabs of a single spreadsheet.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewClient builds a client for the main site spreadsheet (GOOGLE_SHEETS_ID).
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForSheet(ctx, os.Getenv("GOOGLE_SHEETS_ID"))
}

// NewClientForSheet builds a client for an arbitrary spreadsheet ID using the
// shared service-account credentials.
func NewClientForSheet(ctx context.Context, spreadsheetID string) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID not configured")
	}

	cfg, err := serviceAccountConfig()
	if err != nil {
		return nil, err
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to build sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// serviceAccountConfig supports two credential formats, matching how the
// deployment environments are provisioned:
//  1. GOOGLE_SERVICE_ACCOUNT_BASE64 - full service-account JSON, base64 encoded
//  2. GOOGLE_SERVICE_ACCOUNT_EMAIL + GOOGLE_PRIVATE_KEY_BASE64 - separate values
func serviceAccountConfig() (*jwt.Config, error) {
	if b64 := os.Getenv("GOOGLE_SERVICE_ACCOUNT_BASE64"); b64 != "" {
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("invalid GOOGLE_SERVICE_ACCOUNT_BASE64: %w", err)
		}
		cfg, err := google.JWTConfigFromJSON(raw, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("invalid service account JSON: %w", err)
		}
		return cfg, nil
	}

	email := os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL")
	keyB64 := os.Getenv("GOOGLE_PRIVATE_KEY_BASE64")
	if email == "" || keyB64 == "" {
		return nil, fmt.Errorf("no Google service account credentials configured")
	}

	key, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		return nil, fmt.Errorf("invalid GOOGLE_PRIVATE_KEY_BASE64: %w", err)
	}

	return &jwt.Config{
		Email:      email,
		PrivateKey: key,
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}, nil
}

// ReadTable fetches all rows of the named tab. Row 0 is the header.
func (c *Client) ReadTable(ctx context.Context, name string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, name).Context(ctx).Do()
	if err != nil {
		logger.ErrorLogger.Errorf("Error fetching %s: %v", name, err)
		return nil, fmt.Errorf("failed to read table %s: %w", name, err)
	}
	return toStringRows(resp.Values), nil
}

// AppendRows appends rows after the last data row of the named tab.
func (c *Client) AppendRows(ctx context.Context, name string, rows [][]string) error {
	vr := &sheets.ValueRange{Values: toInterfaceRows(rows)}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, name, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		logger.ErrorLogger.Errorf("Error appending to %s: %v", name, err)
		return fmt.Errorf("failed to append to table %s: %w", name, err)
	}
	return nil
}

// UpdateRow overwrites one data row. rowIndex is 0-based over data rows; the
// sheet itself is 1-based and row 1 is the header, so data row 0 lives at
// physical row 2.
func (c *Client) UpdateRow(ctx context.Context, name string, rowIndex int, cells []string) error {
	if rowIndex < 0 {
		return fmt.Errorf("row index must not be negative")
	}
	sheetRow := rowIndex + 2
	rangeRef := fmt.Sprintf("%s!A%d", name, sheetRow)

	vr := &sheets.ValueRange{Values: toInterfaceRows([][]string{cells})}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rangeRef, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		logger.ErrorLogger.Errorf("Error updating row %d in %s: %v", rowIndex, name, err)
		return fmt.Errorf("failed to update row in table %s: %w", name, err)
	}
	return nil
}

func toStringRows(values [][]interface{}) [][]string {
	rows := make([][]string, 0, len(values))
	for _, row := range values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		rows = append(rows, cells)
	}
	return rows
}

func toInterfaceRows(rows [][]string) [][]interface{} {
	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		values = append(values, cells)
	}
	return values
}
