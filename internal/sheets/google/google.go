// Package google mirrors the transaction ledger into a Google Sheets
// spreadsheet. One row per transaction, keyed by id in column A, so
// repeated syncs of the same record rewrite its row instead of
// appending duplicates.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"contas/internal/core"
	ports "contas/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.TransactionMirror = (*Client)(nil)

// NewFromEnv creates a Sheets client from the environment.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS. Optional: GOOGLE_SHEET_NAME
// (default "Transactions").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Transactions"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	inlineJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	credentialsFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inlineJSON == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inlineJSON != "":
		credentialsJSON = []byte(inlineJSON)
	case credentialsFile != "":
		data, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Upsert writes the row for a transaction. Existing rows (matched by id
// in column A) are rewritten in place; new ids land on the first free
// row.
func (c *Client) Upsert(ctx context.Context, t core.Transaction) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	row, err := c.findRow(ctx, t.ID)
	if err != nil {
		return "", err
	}

	rng := fmt.Sprintf("%s!A%d:I%d", c.sheetName, row, row)
	vr := &gsheet.ValueRange{Values: [][]any{{
		t.ID,
		string(t.Kind),
		t.Date.String(),
		t.Description,
		t.Category,
		t.Amount.Float(),
		t.IsPaid,
		string(t.Recurrence),
		t.DueDate.String(),
	}}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("write row %d in sheet %s: %w", row, c.sheetName, err)
	}
	return rng, nil
}

// Remove clears the row of a deleted transaction. Ids that were never
// mirrored are ignored.
func (c *Client) Remove(ctx context.Context, id string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	ids, err := c.readIDColumn(ctx)
	if err != nil {
		return err
	}
	for i, existing := range ids {
		if existing != id {
			continue
		}
		rng := fmt.Sprintf("%s!A%d:I%d", c.sheetName, i+1, i+1)
		if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
			Context(ctx).Do(); err != nil {
			return fmt.Errorf("clear row %d in sheet %s: %w", i+1, c.sheetName, err)
		}
		return nil
	}

	slog.InfoContext(ctx, "Transaction was never mirrored, nothing to clear",
		"id", id, "sheet", c.sheetName)
	return nil
}

// findRow returns the 1-based row holding the id, or the first row past
// the current data when the id is new.
func (c *Client) findRow(ctx context.Context, id string) (int, error) {
	ids, err := c.readIDColumn(ctx)
	if err != nil {
		return 0, err
	}
	for i, existing := range ids {
		if existing == id {
			return i + 1, nil
		}
	}
	return len(ids) + 1, nil
}

func (c *Client) readIDColumn(ctx context.Context) ([]string, error) {
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read id column of sheet %s: %w", c.sheetName, err)
	}
	ids := make([]string, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) > 0 {
			if s, ok := row[0].(string); ok {
				ids[i] = s
			}
		}
	}
	return ids, nil
}
