package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"expensetracker/internal/cache"
	"expensetracker/internal/core"
	ports "expensetracker/internal/sheets"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Default worksheet names, one per table.
const (
	DefaultExpensesSheet = "expenses_tracker"
	DefaultBudgetSheet   = "budget"
	DefaultSavingsSheet  = "savings"
)

// Credentials selects how the client authenticates. A service account wins
// over an OAuth client when both are present.
type Credentials struct {
	ServiceAccountJSON string
	ServiceAccountFile string

	OAuthClientJSON string
	OAuthClientFile string
	OAuthTokenJSON  string
	OAuthTokenFile  string
}

type Config struct {
	SpreadsheetID string
	ExpensesSheet string
	BudgetSheet   string
	SavingsSheet  string
	// CacheTTL keeps GetAllRecords results for this long. Zero disables caching.
	CacheTTL    time.Duration
	Credentials Credentials
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetNames    map[ports.Table]string
	records       cache.Cache[[]core.Record]
}

// Ensure interface conformance
var _ ports.RecordStore = (*Client)(nil)

// New authenticates against the Sheets API and returns a client bound to one spreadsheet.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	httpClient, err := newAuthorizedHTTPClient(ctx, cfg.Credentials)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created successfully", "spreadsheet_id", cfg.SpreadsheetID)
	return NewWithService(svc, cfg)
}

// NewWithService wraps an already built service. Tests point it at a fake endpoint.
func NewWithService(svc *gsheet.Service, cfg Config) (*Client, error) {
	if svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	var records cache.Cache[[]core.Record] = cache.Disabled[[]core.Record]{}
	if cfg.CacheTTL > 0 {
		records = cache.NewLRUCache[[]core.Record](len(ports.Tables), cfg.CacheTTL)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: strings.TrimSpace(cfg.SpreadsheetID),
		sheetNames: map[ports.Table]string{
			ports.TableExpenses: orDefault(cfg.ExpensesSheet, DefaultExpensesSheet),
			ports.TableBudget:   orDefault(cfg.BudgetSheet, DefaultBudgetSheet),
			ports.TableSavings:  orDefault(cfg.SavingsSheet, DefaultSavingsSheet),
		},
		records: records,
	}, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

// newAuthorizedHTTPClient builds an oauth2 client on top of the pooled transport.
func newAuthorizedHTTPClient(ctx context.Context, creds Credentials) (*http.Client, error) {
	// The oauth2 client keeps this context for token refreshes, so it must not be cancellable.
	baseCtx := context.WithValue(context.Background(), oauth2.HTTPClient, newHTTPClientWithPooling())

	saJSON, err := readInlineOrFile(creds.ServiceAccountJSON, creds.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	if len(saJSON) > 0 {
		slog.InfoContext(ctx, "Using service account credentials", "credentials_size", len(saJSON))
		jwtCfg, err := goauth.JWTConfigFromJSON(saJSON, gsheet.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("service account config: %w", err)
		}
		return jwtCfg.Client(baseCtx), nil
	}

	clientJSON, err := readInlineOrFile(creds.OAuthClientJSON, creds.OAuthClientFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth client file: %w", err)
	}
	if len(clientJSON) == 0 {
		return nil, errors.New("missing credentials (set a service account or an oauth client and token)")
	}
	oauthCfg, err := goauth.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	tokenJSON, err := readInlineOrFile(creds.OAuthTokenJSON, creds.OAuthTokenFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth token file: %w", err)
	}
	if len(tokenJSON) == 0 {
		return nil, errors.New("missing oauth token (run oauth-init, then set GOOGLE_OAUTH_TOKEN_JSON or GOOGLE_OAUTH_TOKEN_FILE)")
	}
	var tok oauth2.Token
	if err := json.Unmarshal(tokenJSON, &tok); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}
	slog.InfoContext(ctx, "Using OAuth user credentials")
	return oauthCfg.Client(baseCtx, &tok), nil
}

func readInlineOrFile(inline, path string) ([]byte, error) {
	if s := strings.TrimSpace(inline); s != "" {
		return []byte(s), nil
	}
	if p := strings.TrimSpace(path); p != "" {
		return os.ReadFile(p)
	}
	return nil, nil
}

// newHTTPClientWithPooling creates an HTTP client tuned for the Sheets API
// with connection pooling, proper timeouts, and keep-alive settings
func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext: dialer.DialContext,

		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		ForceAttemptHTTP2: true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second, // Overall request timeout
	}
}

// AppendRow appends values as one new row after the table's last row.
// Values are sent RAW so dates stay DD/MM/YYYY text instead of being reparsed.
func (c *Client) AppendRow(ctx context.Context, table ports.Table, values []any) (string, error) {
	sheet, rng, err := c.tableRange(table)
	if err != nil {
		return "", err
	}
	vr := &gsheet.ValueRange{Values: [][]any{sheetCells(values)}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", sheet, err)
	}
	c.records.Delete(string(table))

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	slog.DebugContext(ctx, "Row appended", "table", table, "sheets_ref", ref)
	return ref, nil
}

// sheetCells turns decimal amounts into numbers so the sheet can sum them.
// Decimals would otherwise be sent as quoted text.
func sheetCells(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if d, ok := v.(decimal.Decimal); ok {
			out[i] = d.InexactFloat64()
			continue
		}
		out[i] = v
	}
	return out
}

// GetAllRecords reads the whole table. Row 1 is the header row; blank rows are skipped.
func (c *Client) GetAllRecords(ctx context.Context, table ports.Table) ([]core.Record, error) {
	sheet, rng, err := c.tableRange(table)
	if err != nil {
		return nil, err
	}
	if recs, ok := c.records.Get(string(table)); ok {
		return cloneRecords(recs), nil
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	recs, err := parseRecords(resp.Values, table.Columns())
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheet, err)
	}
	c.records.Set(string(table), recs)
	return cloneRecords(recs), nil
}

// InvalidateCache drops every cached table.
func (c *Client) InvalidateCache() {
	c.records.Purge()
}

func (c *Client) tableRange(table ports.Table) (sheet, rng string, err error) {
	sheet, ok := c.sheetNames[table]
	if !ok {
		return "", "", fmt.Errorf("unknown table %q", table)
	}
	cols := len(table.Columns())
	return sheet, fmt.Sprintf("%s!A:%c", quoteSheet(sheet), rune('A'+cols-1)), nil
}

// quoteSheet wraps a sheet name for A1 notation, doubling embedded quotes.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// parseRecords maps data rows onto the expected columns using the header row.
func parseRecords(values [][]any, columns []string) ([]core.Record, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := toStrings(values[0])
	idx := make([]int, len(columns))
	var missing []string
	for i, col := range columns {
		idx[i] = indexOf(headers, col)
		if idx[i] == -1 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected header: missing %s; got headers=%v", strings.Join(missing, ","), headers)
	}

	out := make([]core.Record, 0, len(values)-1)
	for _, row := range values[1:] {
		cells := toStrings(row)
		rec := make(core.Record, len(columns))
		blank := true
		for i, col := range columns {
			v := safeGet(cells, idx[i])
			if v != "" {
				blank = false
			}
			rec[col] = v
		}
		if blank {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func cloneRecords(in []core.Record) []core.Record {
	out := make([]core.Record, len(in))
	for i, r := range in {
		c := make(core.Record, len(r))
		for k, v := range r {
			c[k] = v
		}
		out[i] = c
	}
	return out
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(core.FormatCell(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
