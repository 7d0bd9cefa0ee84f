package paprika

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the production sync API root.
const DefaultBaseURL = "https://www.paprikaapp.com/api/v2"

// Endpoints, relative to the base URL.
const (
	EndpointLogin      = "account/login"
	EndpointRecipes    = "sync/recipes"
	EndpointCategories = "sync/categories"
	endpointRecipe     = "sync/recipe"
)

// RecipeEndpoint returns the endpoint of a single recipe.
func RecipeEndpoint(uid string) string {
	return endpointRecipe + "/" + url.PathEscape(uid)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every exchange. Timeouts
// and retries are the caller's business and belong on this client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// Client talks to one Paprika API root. It holds no per-user state, so a
// single Client may serve concurrent calls with different tokens.
type Client struct {
	baseURL   string
	http      *http.Client
	logger    *slog.Logger
	userAgent string
}

// NewClient returns a Client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) endpointURL(endpoint string) string {
	return c.baseURL + "/" + strings.Trim(endpoint, "/") + "/"
}

// Query performs one exchange against endpoint and decodes the envelope.
// method is http.MethodGet or http.MethodPost; form, when non-empty, is
// sent as a URL-encoded body with POST. An empty token sends no
// Authorization header.
func (c *Client) Query(ctx context.Context, token, endpoint, method string, form url.Values) (*Result, error) {
	return c.query(ctx, token, endpoint, method, form, KindUnknown)
}

func (c *Client) query(ctx context.Context, token, endpoint, method string, form url.Values, expected Kind) (*Result, error) {
	if method != http.MethodGet && method != http.MethodPost {
		return nil, fmt.Errorf("paprika: unsupported method %q", method)
	}

	var body io.Reader
	if method == http.MethodPost && len(form) > 0 {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpointURL(endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("paprika: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	text, err := c.do(req, token)
	if err != nil {
		return nil, err
	}
	return decodeResult(text, expected)
}

// do sends req with auth headers and returns the full response body.
func (c *Client) do(req *http.Request, token string) ([]byte, error) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: fmt.Errorf("read body: %w", err)}
	}

	c.logger.Debug("paprika: exchange",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(data)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       truncate(string(data), maxErrorBody),
		}
	}
	return data, nil
}

// Login exchanges an email and password for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	res, err := c.query(ctx, "", EndpointLogin, http.MethodPost, form, KindToken)
	if err != nil {
		return "", err
	}
	if err := expect(res, EndpointLogin, KindToken); err != nil {
		return "", err
	}
	return res.Token.Token, nil
}

// ListRecipes returns the uid and content hash of every recipe.
func (c *Client) ListRecipes(ctx context.Context, token string) ([]RecipeEntry, error) {
	res, err := c.query(ctx, token, EndpointRecipes, http.MethodGet, nil, KindRecipeEntries)
	if err != nil {
		return nil, err
	}
	if err := expect(res, EndpointRecipes, KindRecipeEntries); err != nil {
		return nil, err
	}
	return res.Entries, nil
}

// ListCategories returns every recipe category.
func (c *Client) ListCategories(ctx context.Context, token string) ([]Category, error) {
	res, err := c.query(ctx, token, EndpointCategories, http.MethodGet, nil, KindCategories)
	if err != nil {
		return nil, err
	}
	if err := expect(res, EndpointCategories, KindCategories); err != nil {
		return nil, err
	}
	return res.Categories, nil
}

// GetRecipe fetches the full record of one recipe.
func (c *Client) GetRecipe(ctx context.Context, token, uid string) (*Recipe, error) {
	endpoint := RecipeEndpoint(uid)
	res, err := c.query(ctx, token, endpoint, http.MethodGet, nil, KindRecipe)
	if err != nil {
		return nil, err
	}
	if err := expect(res, endpoint, KindRecipe); err != nil {
		return nil, err
	}
	return &res.Recipe, nil
}
