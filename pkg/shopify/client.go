package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DoonX23/ciseco-backend/pkg/config"
	pkgerrors "github.com/DoonX23/ciseco-backend/pkg/errors"
	"github.com/DoonX23/ciseco-backend/pkg/logger"
)

const (
	adminPathFormat      = "/admin/api/%s/graphql.json"
	storefrontPathFormat = "/api/%s/graphql.json"

	adminTokenHeader      = "X-Shopify-Access-Token"
	storefrontTokenHeader = "X-Shopify-Storefront-Access-Token"

	responseBodyReadLimit int64 = 2048
)

var (
	errStoreDomainRequired     = errors.New("shopify store domain is required")
	errAdminTokenRequired      = errors.New("shopify admin access token is required")
	errStorefrontTokenRequired = errors.New("shopify storefront access token is required")
	errLoggerRequired          = errors.New("shopify logger is required")
)

// Client talks to the shop's Admin (variant provisioning) and Storefront
// (cart) GraphQL endpoints with centralized auth, logging, and error mapping.
type Client struct {
	httpClient        *http.Client
	baseURL           string
	adminToken        string
	adminVersion      string
	storefrontToken   string
	storefrontVersion string
	logger            *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the shop base URL (tests point this at a fake).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient initializes the Shopify wrapper and validates the credentials.
func NewClient(cfg config.ShopifyConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	domain := strings.TrimSpace(cfg.StoreDomain)
	if domain == "" {
		return nil, errStoreDomainRequired
	}
	adminToken := strings.TrimSpace(cfg.AdminAccessToken)
	if adminToken == "" {
		return nil, errAdminTokenRequired
	}
	storefrontToken := strings.TrimSpace(cfg.StorefrontAccessToken)
	if storefrontToken == "" {
		return nil, errStorefrontTokenRequired
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient:        &http.Client{Timeout: timeout},
		baseURL:           "https://" + domain,
		adminToken:        adminToken,
		adminVersion:      cfg.AdminAPIVersion,
		storefrontToken:   storefrontToken,
		storefrontVersion: cfg.StorefrontAPIVersion,
		logger:            logg,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// UserError is a field-level rejection reported by the platform on an
// otherwise successful call.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func (u UserError) String() string {
	if len(u.Field) == 0 {
		return u.Message
	}
	return fmt.Sprintf("%s: %s", strings.Join(u.Field, "."), u.Message)
}

// UserErrorMessages flattens userErrors for logging and error details.
func UserErrorMessages(errs []UserError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.String())
	}
	return out
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

func (c *Client) doAdmin(ctx context.Context, op, query string, variables map[string]any, out any) error {
	url := c.baseURL + fmt.Sprintf(adminPathFormat, c.adminVersion)
	headers := map[string]string{adminTokenHeader: c.adminToken}
	return c.do(ctx, op, url, headers, query, variables, out)
}

func (c *Client) doStorefront(ctx context.Context, op, query string, variables map[string]any, out any) error {
	url := c.baseURL + fmt.Sprintf(storefrontPathFormat, c.storefrontVersion)
	headers := map[string]string{storefrontTokenHeader: c.storefrontToken}
	return c.do(ctx, op, url, headers, query, variables, out)
}

// do executes one GraphQL request. Transport problems (network errors,
// non-2xx statuses, top-level GraphQL errors) map to CodeTransport; userErrors
// are left to the typed operation wrappers because only they know the
// response shape.
func (c *Client) do(ctx context.Context, op, url string, headers map[string]string, query string, variables map[string]any, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "shopify client not configured")
	}

	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("marshal %s request", op))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("build %s request", op))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	c.log(ctx, "request", op, map[string]any{"url": url})

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("execute %s request", op))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		err := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		c.log(ctx, "error", op, map[string]any{"error": err.Error(), "status": resp.StatusCode})
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("%s request failed", op))
	}

	var gqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("decode %s response", op))
	}

	if len(gqlResp.Errors) > 0 {
		msgs := make([]string, 0, len(gqlResp.Errors))
		for _, e := range gqlResp.Errors {
			msgs = append(msgs, e.Message)
		}
		err := fmt.Errorf("graphql errors: %s", strings.Join(msgs, "; "))
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("%s rejected at transport level", op)).
			WithDetails(map[string]any{"graphql_errors": msgs})
	}

	if out != nil {
		if err := json.Unmarshal(gqlResp.Data, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("unmarshal %s data", op))
		}
	}

	c.log(ctx, "response", op, nil)
	return nil
}

// Ping verifies Admin API reachability and credentials.
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		Shop struct {
			Name string `json:"name"`
		} `json:"shop"`
	}
	return c.doAdmin(ctx, "shop_ping", `query { shop { name } }`, nil, &out)
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("shopify %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("shopify %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"token", "secret", "password"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}
