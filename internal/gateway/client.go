// Package gateway is the stateless HTTP wrapper around the storefront REST
// backend. It attaches the profile's bearer token when one is present and
// normalizes HTTP failure into the typed error taxonomy; it never touches
// cart state.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/armeria-vanguard/storefront-web/pkg/config"
	pkgerrors "github.com/armeria-vanguard/storefront-web/pkg/errors"
	"github.com/armeria-vanguard/storefront-web/pkg/logger"
)

// Sessions is the token slot the gateway reads from and, on a 401/403
// backend response, invalidates.
type Sessions interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

type Client struct {
	baseURL  string
	http     *http.Client
	sessions Sessions
	logg     *logger.Logger
}

func NewClient(cfg config.BackendConfig, sessions Sessions, logg *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("backend base url required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &Client{
		baseURL:  base,
		http:     &http.Client{Timeout: cfg.ClientTimeout},
		sessions: sessions,
		logg:     logg,
	}, nil
}

// errorBody matches the backend's FastAPI error payload. Detail is a string
// for plain failures and a structured list for validation failures.
type errorBody struct {
	Detail any `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build backend request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.sessions.Token(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "call storefront backend")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// The backend rejected our credentials: the local token is dead
		// weight and must be dropped before the error surfaces.
		if clearErr := c.sessions.Clear(ctx); clearErr != nil && c.logg != nil {
			c.logg.Error(ctx, "gateway.session_clear_failed", clearErr)
		}
		message := detailMessage(resp.Body)
		if message == "" {
			message = "session rejected by backend"
		}
		return pkgerrors.New(pkgerrors.CodeSessionExpired, message)

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeBackend, err, "read backend response")
		}
		// 2xx with an empty body is a valid no-content success.
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeBackend, err, "decode backend response")
		}
		return nil

	case resp.StatusCode == http.StatusNotFound:
		message := detailMessage(resp.Body)
		if message == "" {
			message = "resource not found"
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, message)

	default:
		message := detailMessage(resp.Body)
		if message == "" {
			message = fmt.Sprintf("backend returned status %d", resp.StatusCode)
		}
		return pkgerrors.New(pkgerrors.CodeBackend, message).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}
}

func detailMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 1<<16))
	if err != nil {
		return ""
	}
	var parsed errorBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ""
	}
	switch detail := parsed.Detail.(type) {
	case string:
		return detail
	case nil:
		return ""
	default:
		encoded, err := json.Marshal(detail)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
