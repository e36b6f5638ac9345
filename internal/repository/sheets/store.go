package sheets

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/cakequest/landing-api/internal/config"
	"github.com/cakequest/landing-api/internal/models"
)

const (
	scopeSpreadsheets = "https://www.googleapis.com/auth/spreadsheets"

	// Unqualified range resolves against the first sheet of the document.
	sheetRange = "A:B"

	headerEmail = "email"
)

// Store reads and appends subscriber rows in a Google Sheet. The sheet is
// the source of truth: column A holds emails, column B the subscription
// timestamp, with an optional header row.
type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	logger        *log.Logger
}

// NewStore builds a Sheets client authenticated with service-account JWT
// credentials. Private keys arriving via env have their newlines escaped,
// so normalize before parsing. The base client, when given, carries the
// transport used for all outbound calls.
func NewStore(
	ctx context.Context,
	cfg config.Google,
	base *http.Client,
	logger *log.Logger,
) (*Store, error) {
	conf := &jwt.Config{
		Email:      cfg.ServiceEmail,
		PrivateKey: []byte(strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")),
		Scopes:     []string{scopeSpreadsheets},
		TokenURL:   google.JWTTokenURL,
	}

	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return NewStoreWithService(svc, cfg.SpreadsheetID, logger), nil
}

// NewStoreWithService wires an already-built sheets.Service, used by tests
// to point the store at a stub backend.
func NewStoreWithService(svc *sheets.Service, spreadsheetID string, logger *log.Logger) *Store {
	return &Store{svc: svc, spreadsheetID: spreadsheetID, logger: logger}
}

// ListEmails returns every stored email address. The whole sheet is read on
// each call; there is no pagination on this collection size.
func (s *Store) ListEmails(ctx context.Context) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", s.spreadsheetID, err)
	}

	emails := make([]string, 0, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		cell, ok := row[0].(string)
		if !ok {
			s.logger.Printf("skipping non-string cell in row %d", i+1)
			continue
		}
		if i == 0 && strings.EqualFold(cell, headerEmail) {
			continue
		}
		emails = append(emails, cell)
	}

	return emails, nil
}

// Append adds one subscriber row after the last row with data.
func (s *Store) Append(ctx context.Context, sub models.Subscriber) error {
	row := &sheets.ValueRange{
		Values: [][]interface{}{
			{sub.Email, sub.SubscribedAt.UTC().Format(time.RFC3339)},
		},
	}

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, sheetRange, row).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", s.spreadsheetID, err)
	}

	return nil
}
