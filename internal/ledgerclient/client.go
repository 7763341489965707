// Package ledgerclient implements the LedgerService port over the ledger's
// HTTP API. The client is stateful: Login stores the bearer token and acting
// user ID used by every subsequent call.
package ledgerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/slms-dev/ledgercheck/internal/apperrors"
	"github.com/slms-dev/ledgercheck/internal/core/domain"
	portssvc "github.com/slms-dev/ledgercheck/internal/core/ports/services"
	"github.com/slms-dev/ledgercheck/internal/dto"
)

const maxReasonLen = 300

// Client talks to the ledger API. Not safe for concurrent use; the harness
// runs strictly sequentially.
type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
	logger   *slog.Logger

	token  string
	userID int64
}

var _ portssvc.LedgerService = (*Client)(nil)

// New creates a client for the ledger at baseURL. Every call carries the
// given timeout; a timed-out call surfaces as a failed operation, never a
// crash.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		validate: validator.New(),
		logger:   logger,
	}
}

// UserID returns the acting principal's ID captured at login.
func (c *Client) UserID() int64 { return c.userID }

// Login implements portssvc.LedgerService.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body, err := json.Marshal(dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("failed to encode login request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/login", nil, body, false)
	if err != nil {
		return fmt.Errorf("%w: login: %v", apperrors.ErrConnectivity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: login returned status %d: %s", apperrors.ErrUnauthorized, resp.StatusCode, readReason(resp.Body))
	}

	var loginResp dto.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}
	if loginResp.Data.AccessToken == "" {
		return fmt.Errorf("%w: login response carried no access token", apperrors.ErrUnauthorized)
	}

	c.token = loginResp.Data.AccessToken
	c.userID = loginResp.Data.User.ID
	c.inspectToken()

	c.logger.Info("ledger login succeeded", slog.Int64("user_id", c.userID))
	return nil
}

// SubmitEntry implements portssvc.LedgerService. The discriminated result
// separates explicit rejection (4xx) from transport or server faults, so
// "the ledger refused this entry" is observable as a first-class outcome.
func (c *Client) SubmitEntry(ctx context.Context, entry domain.JournalEntry) domain.SubmitResult {
	payload := dto.ToCreateJournalRequest(entry)
	if err := c.validate.Struct(payload); err != nil {
		return domain.SubmitResult{Outcome: domain.SubmitErrored, Reason: fmt.Sprintf("payload failed local validation: %v", err)}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.SubmitResult{Outcome: domain.SubmitErrored, Reason: fmt.Sprintf("encode: %v", err)}
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/journals", nil, body, true)
	if err != nil {
		return domain.SubmitResult{Outcome: domain.SubmitErrored, Reason: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var created dto.CreateJournalResponse
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil || created.Data.ID == 0 {
			return domain.SubmitResult{
				Outcome:    domain.SubmitErrored,
				StatusCode: resp.StatusCode,
				Reason:     "creation response body was malformed",
			}
		}
		id := created.Data.ID
		return domain.SubmitResult{Outcome: domain.SubmitAccepted, EntryID: &id, StatusCode: resp.StatusCode}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// The ledger's balance enforcement answers at creation time with a
		// 4xx; that is the contract-level rejection signal.
		return domain.SubmitResult{
			Outcome:    domain.SubmitRejected,
			StatusCode: resp.StatusCode,
			Reason:     readReason(resp.Body),
		}
	default:
		return domain.SubmitResult{
			Outcome:    domain.SubmitErrored,
			StatusCode: resp.StatusCode,
			Reason:     readReason(resp.Body),
		}
	}
}

// PostEntry implements portssvc.LedgerService.
func (c *Client) PostEntry(ctx context.Context, entryID int64) error {
	path := "/journals/" + strconv.FormatInt(entryID, 10) + "/post"
	resp, err := c.doRequest(ctx, http.MethodPost, path, nil, nil, true)
	if err != nil {
		return fmt.Errorf("%w: post entry %d: %v", apperrors.ErrConnectivity, entryID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("posting entry %d returned status %d: %s", entryID, resp.StatusCode, readReason(resp.Body))
	}
	return nil
}

// IncomeStatement implements portssvc.LedgerService.
func (c *Client) IncomeStatement(ctx context.Context, from, to time.Time) (map[string]any, error) {
	params := url.Values{}
	params.Set("from_date", dto.FormatReportDate(from))
	params.Set("to_date", dto.FormatReportDate(to))
	return c.fetchReport(ctx, "/reports/income-statement", params)
}

// BalanceSheet implements portssvc.LedgerService.
func (c *Client) BalanceSheet(ctx context.Context) (map[string]any, error) {
	return c.fetchReport(ctx, "/reports/balance-sheet", nil)
}

func (c *Client) fetchReport(ctx context.Context, path string, params url.Values) (map[string]any, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, params, nil, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrConnectivity, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("report %s returned status %d: %s", path, resp.StatusCode, readReason(resp.Body))
	}

	var report dto.ReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return report.Data, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, body []byte, authed bool) (*http.Response, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	return resp, nil
}

// readReason drains a response body into a bounded diagnostic string.
func readReason(body io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(body, maxReasonLen))
	if err != nil || len(b) == 0 {
		return "(no body)"
	}
	return string(b)
}
