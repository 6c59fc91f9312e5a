// Package tinkoff reproduces the private protocol of the Tinkoff mobile app:
// session establishment, multi-factor authentication and account/operation
// retrieval. The client is a plain transport plus codec; it keeps no session
// state, performs no retries and enforces no call ordering, so a single
// instance is safe for concurrent use. Sequencing (request a session before
// anything else, escalate trust before account queries) is the caller's
// contract with the backend.
package tinkoff

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// identityParams emulate the official app's fingerprint. The backend rejects
// requests without them, so every call carries all of them verbatim.
var identityParams = [...][2]string{
	{"appVersion", "5.5.1"},
	{"connectionSubtype", "4G"},
	{"appName", "mobile"},
	{"origin", "mobile,ib5,loyalty,platform"},
	{"connectionType", "Cellular"},
	{"platform", "android"},
}

// Client issues the protocol operations against one base URL with one device
// identity.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	deviceID   string
}

// DeviceID returns the device identifier the client presents to the backend.
// Persist it if you intend to re-authenticate by PIN later: the backend binds
// PIN enrollment to the device.
func (c *Client) DeviceID() string {
	return c.deviceID
}

// RequestSession opens a new anonymous session. Every other operation needs
// the returned Session.ID.
func (c *Client) RequestSession(ctx context.Context) (*Envelope[Session], error) {
	return call[Session](ctx, c, "/v1/auth/session", nil, nil)
}

// Ping reports the access level the given session has reached.
func (c *Client) Ping(ctx context.Context, sessionID string) (*Envelope[UserInfo], error) {
	return call[UserInfo](ctx, c, "/v1/ping", sessionQuery(sessionID), nil)
}

// AuthByPhone starts phone authentication. The backend answers with a
// WAITING_CONFIRMATION envelope naming the SMS factor and an operation
// ticket; pass both the ticket and the received code to ConfirmAuthByPhone.
func (c *Client) AuthByPhone(ctx context.Context, sessionID, phone string) (*Envelope[Nothing], error) {
	return call[Nothing](ctx, c, "/v1/auth/by/phone", sessionQuery(sessionID), []formPair{
		{"phone", phone},
	})
}

// ConfirmAuthByPhone completes phone authentication with the SMS code,
// raising the session to candidate level on success.
func (c *Client) ConfirmAuthByPhone(ctx context.Context, sessionID, operationTicket, smsCode string) (*Envelope[UserInfo], error) {
	confirmation, err := json.Marshal(map[string]string{"SMSBYID": smsCode})
	if err != nil {
		return nil, fmt.Errorf("encode confirmation data: %w", err)
	}
	return call[UserInfo](ctx, c, "/v1/confirm", sessionQuery(sessionID), []formPair{
		{"initialOperationTicket", operationTicket},
		{"initialOperation", "auth/by/phone"},
		{"confirmationData", string(confirmation)},
	})
}

// AuthByPassword presents the account password, raising the session to client
// level.
func (c *Client) AuthByPassword(ctx context.Context, sessionID, password string) (*Envelope[UserInfo], error) {
	return call[UserInfo](ctx, c, "/v1/auth/by/password", sessionQuery(sessionID), []formPair{
		{"password", password},
	})
}

// SetAuthPin enrolls an opaque caller-chosen PIN hash against the current
// fully-authenticated session. Keep the hash and the session id: AuthByPin
// needs both to fast-track a later login.
func (c *Client) SetAuthPin(ctx context.Context, sessionID, pinHash string) (*Envelope[Nothing], error) {
	return call[Nothing](ctx, c, "/v1/auth/pin/set", sessionQuery(sessionID), []formPair{
		{"pinHash", pinHash},
	})
}

// AuthByPin re-authenticates a fresh session using a previously enrolled PIN
// hash and the session id the enrollment happened on, skipping the phone and
// password factors.
func (c *Client) AuthByPin(ctx context.Context, sessionID, pinHash, oldSessionID string) (*Envelope[UserInfo], error) {
	return call[UserInfo](ctx, c, "/v1/auth/by/pin", sessionQuery(sessionID), []formPair{
		{"pinHash", pinHash},
		{"oldSessionId", oldSessionID},
		{"auth_type", "pin"},
	})
}

// ListAccounts returns the flat account listing.
func (c *Client) ListAccounts(ctx context.Context, sessionID string) (*Envelope[[]Account], error) {
	return call[[]Account](ctx, c, "/v1/accounts_flat", sessionQuery(sessionID), nil)
}

// ListOperations returns the operations of one account between start and end
// (millisecond precision, both bounds passed through verbatim). The account
// argument is Account.ID, not the external number. No date validation is
// performed; an inverted range is the backend's problem.
func (c *Client) ListOperations(ctx context.Context, sessionID, accountID string, start, end time.Time) (*Envelope[[]Operation], error) {
	return call[[]Operation](ctx, c, "/v1/operations", sessionQuery(sessionID), []formPair{
		{"account", accountID},
		{"start", strconv.FormatInt(start.UnixMilli(), 10)},
		{"end", strconv.FormatInt(end.UnixMilli(), 10)},
	})
}

func sessionQuery(sessionID string) url.Values {
	return url.Values{"sessionid": []string{sessionID}}
}

// formPair is one form body field. The backend cares about field order, so
// the body is encoded from a slice rather than a url.Values map.
type formPair struct {
	key   string
	value string
}

func encodeForm(pairs []formPair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

// call performs one protocol POST: fixed identity parameters plus deviceId
// and any per-call parameters in the query string, form fields in insertion
// order in the body, and the response decoded into an envelope. Transport
// errors surface unmodified; body shape mismatches surface as *DecodeError.
func call[T any](ctx context.Context, c *Client, path string, query url.Values, form []formPair) (*Envelope[T], error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("build %s URL: %w", path, err)
	}
	q := u.Query()
	for _, p := range identityParams {
		q.Set(p[0], p[1])
	}
	q.Set("deviceId", c.deviceID)
	for key, values := range query {
		for _, value := range values {
			q.Add(key, value)
		}
	}
	u.RawQuery = q.Encode()

	var body io.Reader
	if len(form) > 0 {
		body = strings.NewReader(encodeForm(form))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	if len(form) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	c.logger.Debug("Issuing API request", "path", path, "form_fields", len(form))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	return decodeEnvelope[T](path, resp.Body)
}
