package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/models"
	"github.com/go-resty/resty/v2"
)

type httpRemoteAPI struct {
	client *resty.Client
	tokens TokenSource
	logger *logger.Logger
}

// NewHTTPRemoteAPI constructs the HTTP/REST implementation of [RemoteAPI].
// It normalises and validates the base URL from cfg.BaseURL, applies the
// per-request timeout, and installs the interceptor chain: content-type
// normalization, bearer-token injection from tokens, and request logging.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid URL.
func NewHTTPRemoteAPI(cfg config.ClientAdapter, tokens TokenSource, log *logger.Logger) (RemoteAPI, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	a := &httpRemoteAPI{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(cfg.RequestTimeout),
		tokens: tokens,
		logger: log,
	}

	a.client.OnBeforeRequest(a.prepareRequest)
	a.client.OnAfterResponse(a.logResponse)

	return a, nil
}

// prepareRequest is the outbound interceptor chain: it normalises content
// negotiation headers and injects the bearer token when one is available.
// An absent token is not an error; the request proceeds unauthenticated and
// the server decides whether to reject it.
func (a *httpRemoteAPI) prepareRequest(_ *resty.Client, req *resty.Request) error {
	if req.Body != nil && req.Header.Get("Content-Type") == "" {
		req.SetHeader("Content-Type", "application/json")
	}
	req.SetHeader("Accept", "application/json")

	if a.tokens != nil {
		if token := strings.TrimSpace(a.tokens.Token()); token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}
	}

	return nil
}

func (a *httpRemoteAPI) logResponse(_ *resty.Client, resp *resty.Response) error {
	a.logger.Debug().
		Str("method", resp.Request.Method).
		Str("url", resp.Request.URL).
		Int("status", resp.StatusCode()).
		Dur("duration", resp.Time()).
		Msg("remote api call")
	return nil
}

func (a *httpRemoteAPI) List(ctx context.Context, entityType models.EntityType, filters ListFilters) ([]models.ServerRecord, error) {
	op := fmt.Sprintf("list %s", entityType)
	if !entityType.Valid() {
		return nil, &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf("unknown entity type %q", entityType)}
	}

	req := a.client.R().SetContext(ctx)
	if filters.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(filters.Limit))
	}
	if filters.Page > 0 {
		req.SetQueryParam("page", strconv.Itoa(filters.Page))
	}
	if filters.UpdatedSince != nil {
		req.SetQueryParam("updated_since", filters.UpdatedSince.UTC().Format("2006-01-02T15:04:05Z07:00"))
	}

	resp, err := req.Get("/api/" + string(entityType))
	if cerr := classify(op, resp, err); cerr != nil {
		return nil, cerr
	}

	env := normalizeEnvelope(entityType, resp.Body())
	if !env.Success {
		return nil, &Error{Kind: KindUnknown, StatusCode: resp.StatusCode(), Op: op, Err: errors.New("server reported failure envelope")}
	}

	records, err := decodeServerRecords(env.Data)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, StatusCode: resp.StatusCode(), Op: op, Err: err}
	}
	return records, nil
}

func (a *httpRemoteAPI) Create(ctx context.Context, entityType models.EntityType, payload json.RawMessage) (models.ServerRecord, error) {
	op := fmt.Sprintf("create %s", entityType)

	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/api/" + string(entityType))
	if cerr := classify(op, resp, err); cerr != nil {
		return models.ServerRecord{}, cerr
	}

	return decodeSingle(entityType, op, resp)
}

func (a *httpRemoteAPI) Update(ctx context.Context, entityType models.EntityType, serverID string, payload json.RawMessage) (models.ServerRecord, error) {
	op := fmt.Sprintf("update %s/%s", entityType, serverID)

	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(payload).
		Put("/api/" + string(entityType) + "/" + url.PathEscape(serverID))
	if cerr := classify(op, resp, err); cerr != nil {
		return models.ServerRecord{}, cerr
	}

	return decodeSingle(entityType, op, resp)
}

func (a *httpRemoteAPI) Delete(ctx context.Context, entityType models.EntityType, serverID string) error {
	op := fmt.Sprintf("delete %s/%s", entityType, serverID)

	resp, err := a.client.R().
		SetContext(ctx).
		Delete("/api/" + string(entityType) + "/" + url.PathEscape(serverID))

	return errOrNil(classify(op, resp, err))
}

func (a *httpRemoteAPI) Ping(ctx context.Context) error {
	resp, err := a.client.R().SetContext(ctx).Get("/api/health")
	if err != nil {
		return classify("ping", resp, err)
	}

	// Any HTTP response means the host is reachable; even a 5xx proves the
	// network path works.
	return nil
}

// decodeSingle normalizes a create/update response body into one server
// record. An OK response with an unparseable or empty body yields a zero
// record, not an error.
func decodeSingle(entityType models.EntityType, op string, resp *resty.Response) (models.ServerRecord, error) {
	env := normalizeEnvelope(entityType, resp.Body())
	if !env.Success {
		return models.ServerRecord{}, &Error{Kind: KindUnknown, StatusCode: resp.StatusCode(), Op: op, Err: errors.New("server reported failure envelope")}
	}
	if len(env.Data) == 0 {
		return models.ServerRecord{}, nil
	}

	rec, err := decodeServerRecord(env.Data)
	if err != nil {
		return models.ServerRecord{}, &Error{Kind: KindUnknown, StatusCode: resp.StatusCode(), Op: op, Err: err}
	}
	return rec, nil
}

// classify maps a resty call outcome into the transport error taxonomy.
// It is the single classification point for the whole engine.
func classify(op string, resp *resty.Response, err error) *Error {
	if err != nil {
		kind := KindNetwork
		if isTimeout(err) {
			kind = KindTimeout
		}
		return &Error{Kind: kind, Op: op, Err: err}
	}

	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(code)
	}

	kind := KindUnknown
	switch {
	case code == http.StatusBadRequest:
		kind = KindValidation
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		kind = KindAuth
	case code >= http.StatusInternalServerError:
		kind = KindServer
	}

	return &Error{Kind: kind, StatusCode: code, Op: op, Err: errors.New(body)}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// errOrNil converts a typed nil *Error into an untyped nil error.
func errOrNil(err *Error) error {
	if err == nil {
		return nil
	}
	return err
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse address: %w", err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("address %q has no host", raw)
	}

	return strings.TrimRight(parsed.String(), "/"), nil
}
