// Package adminclient calls the admin JSON API on behalf of the operator
// console.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/louisbranch/identpanel/internal/identifiers"
	apperrors "github.com/louisbranch/identpanel/internal/platform/errors"
	"github.com/louisbranch/identpanel/internal/platform/timeouts"
	"github.com/louisbranch/identpanel/internal/services/admin/adminapi"
	"github.com/louisbranch/identpanel/internal/services/admin/routepath"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/louisbranch/identpanel/internal/services/console/adminclient"
	// maxResponseBytes caps decoded API responses.
	maxResponseBytes = 1 << 20
)

// Options configures a Client.
type Options struct {
	// Grant is sent as a bearer token when set.
	Grant string
	// Lang selects the language of server error messages.
	Lang       string
	HTTPClient *http.Client
}

// Client talks to one admin server.
type Client struct {
	baseURL string
	grant   string
	lang    string
	http    *http.Client
	tracer  trace.Tracer
}

// APIError is a non-2xx answer from the admin API. Its message is the
// localized text the server returned.
type APIError struct {
	Status  int
	Code    apperrors.Code
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("admin api: %d %s", e.Status, http.StatusText(e.Status))
}

// New builds a client for the admin server at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("admin url %q must be absolute", baseURL)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeouts.AdminRequest}
	}
	return &Client{
		baseURL: baseURL,
		grant:   strings.TrimSpace(opts.Grant),
		lang:    strings.TrimSpace(opts.Lang),
		http:    httpClient,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// Unlink implements identifiers.Unlinker against the admin unlink
// endpoints.
func (c *Client) Unlink(ctx context.Context, req identifiers.UnlinkRequest) error {
	path := req.Path()
	if path == "" {
		return identifiers.ErrUnlinkNotPermitted
	}
	ctx, span := c.tracer.Start(ctx, "console.unlink", trace.WithAttributes(
		attribute.String("identpanel.scope", req.Scope.Kind().String()),
		attribute.String("identpanel.kind", req.Kind.String()),
	))
	defer span.End()

	body, err := json.Marshal(adminapi.UnlinkBody{ID: req.ID})
	if err != nil {
		return fmt.Errorf("encode unlink body: %w", err)
	}
	var out adminapi.SuccessResponse
	if err := c.do(ctx, http.MethodPost, path, req.Scope.Query(), body, &out); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "unlink failed")
		return err
	}
	if !out.Success {
		err := errors.New("admin api did not confirm the unlink")
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}
	return nil
}

// GetPlayer fetches the identifiers of a player.
func (c *Client) GetPlayer(ctx context.Context, ref identifiers.PlayerRef) (adminapi.PlayerResponse, error) {
	var out adminapi.PlayerResponse
	err := c.do(ctx, http.MethodGet, routepath.APIPlayer, ref.Query(), nil, &out)
	return out, err
}

// GetAction fetches a moderation action.
func (c *Client) GetAction(ctx context.Context, actionID string) (adminapi.ActionResponse, error) {
	var out adminapi.ActionResponse
	err := c.do(ctx, http.MethodGet, routepath.APIAction, url.Values{"id": {actionID}}, nil, &out)
	return out, err
}

// Self returns the operator the grant belongs to.
func (c *Client) Self(ctx context.Context) (adminapi.SelfResponse, error) {
	var out adminapi.SelfResponse
	err := c.do(ctx, http.MethodGet, routepath.APIAuthSelf, nil, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.grant != "" {
		req.Header.Set("Authorization", "Bearer "+c.grant)
	}
	if c.lang != "" {
		req.Header.Set("Accept-Language", c.lang)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, maxResponseBytes)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload adminapi.ErrorResponse
		if err := json.NewDecoder(limited).Decode(&payload); err == nil {
			apiErr.Code = apperrors.Code(payload.Error.Code)
			apiErr.Message = payload.Error.Message
		}
		return apiErr
	}
	if err := json.NewDecoder(limited).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
