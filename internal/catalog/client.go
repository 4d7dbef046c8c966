package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"discsub/internal/config"
	"discsub/internal/logging"
)

const (
	defaultUserAgent      = "discsub/dev"
	defaultRequestTimeout = 30 * time.Second
	defaultPageLimit      = 50
	maxPageBytes          = 8 << 20
)

// ErrBadCredentials is returned when the catalog rejects the login.
var ErrBadCredentials = errors.New("catalog: login rejected")

// Client is the narrow boundary to the remote disc catalog.
type Client interface {
	// HasCredentials reports whether lookups can be attempted at all.
	HasCredentials() bool
	// ListByHash returns catalog IDs of discs containing a track with sha1.
	ListByHash(ctx context.Context, sha1 string) ([]int, error)
	// ListByUniversalHash returns catalog IDs whose comments carry hash.
	ListByUniversalHash(ctx context.Context, hash string) ([]int, error)
	// FetchDisc downloads and parses the detail page of one disc.
	FetchDisc(ctx context.Context, id int) (DiscPage, error)
}

// Config describes the HTTP catalog client configuration.
type Config struct {
	BaseURL        string
	Username       string
	Password       string
	UserAgent      string
	RequestTimeout time.Duration
	MaxRetries     int
	PageLimit      int
	HTTPClient     *http.Client
	Logger         *slog.Logger
}

// HTTPClient talks to the catalog website and scrapes its HTML pages.
// It is safe for concurrent use.
type HTTPClient struct {
	baseURL        *url.URL
	username       string
	password       string
	userAgent      string
	requestTimeout time.Duration
	maxRetries     int
	pageLimit      int
	http           *http.Client
	logger         *slog.Logger

	loginMu  sync.Mutex
	loggedIn bool
}

// New creates an HTTPClient from the supplied configuration.
func New(cfg Config) (*HTTPClient, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("catalog: base url is required")
	}
	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("catalog: invalid base url %q", cfg.BaseURL)
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	pageLimit := cfg.PageLimit
	if pageLimit <= 0 {
		pageLimit = defaultPageLimit
	}
	client := cfg.HTTPClient
	if client == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("catalog: create cookie jar: %w", err)
		}
		client = &http.Client{Jar: jar}
	}
	return &HTTPClient{
		baseURL:        baseURL,
		username:       strings.TrimSpace(cfg.Username),
		password:       cfg.Password,
		userAgent:      userAgent,
		requestTimeout: timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		pageLimit:      pageLimit,
		http:           client,
		logger:         logging.NewComponentLogger(cfg.Logger, "catalog"),
	}, nil
}

// HasCredentials reports whether both username and password are configured.
func (c *HTTPClient) HasCredentials() bool {
	return c != nil && c.username != "" && c.password != ""
}

// Login authenticates the session. It is called lazily by every lookup and
// only contacts the catalog once per client.
func (c *HTTPClient) Login(ctx context.Context) error {
	if !c.HasCredentials() {
		return errors.New("catalog: no credentials configured")
	}
	c.loginMu.Lock()
	defer c.loginMu.Unlock()
	if c.loggedIn {
		return nil
	}

	loginURL := c.baseURL.JoinPath("login").String() + "/"
	form, _, err := c.get(ctx, "load login form", loginURL)
	if err != nil {
		return err
	}
	token := extractCSRFToken(form)

	values := url.Values{}
	values.Set("username", c.username)
	values.Set("password", c.password)
	values.Set("remember", "on")
	values.Set("submit", "Login")
	if token != "" {
		values.Set("csrf_token", token)
	}

	body, err := c.withRetry(ctx, "login", func(ctx context.Context) (string, *url.URL, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(values.Encode()))
		if err != nil {
			return "", nil, fmt.Errorf("catalog: build login request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return c.do(req, "login")
	})
	if err != nil {
		return err
	}
	if containsLoginForm(body) {
		return ErrBadCredentials
	}

	c.loggedIn = true
	c.logger.Debug("catalog login succeeded", logging.String("user", c.username))
	return nil
}

// ListByHash returns the IDs of discs with a track matching sha1.
func (c *HTTPClient) ListByHash(ctx context.Context, sha1 string) ([]int, error) {
	return c.search(ctx, SanitizeQuery(sha1, false))
}

// ListByUniversalHash returns the IDs of discs whose comments carry hash.
func (c *HTTPClient) ListByUniversalHash(ctx context.Context, hash string) ([]int, error) {
	query := strings.TrimRight(strings.TrimSpace(hash), "=") + "/comments/only"
	return c.search(ctx, SanitizeQuery(query, true))
}

// FetchDisc downloads and parses the detail page for id.
func (c *HTTPClient) FetchDisc(ctx context.Context, id int) (DiscPage, error) {
	if id <= 0 {
		return DiscPage{}, fmt.Errorf("catalog: invalid disc id %d", id)
	}
	if err := c.Login(ctx); err != nil {
		return DiscPage{}, err
	}
	pageURL := c.baseURL.JoinPath("disc", strconv.Itoa(id)).String() + "/"
	body, _, err := c.get(ctx, "fetch disc", pageURL)
	if err != nil {
		return DiscPage{}, err
	}
	page := ParseDiscPage(body)
	page.ID = id
	return page, nil
}

// search walks result pages sequentially. A redirect straight to a disc page
// counts as a single result; paging stops once a page holds at most one
// result or the page limit is reached.
func (c *HTTPClient) search(ctx context.Context, query string) ([]int, error) {
	if query == "" {
		return nil, nil
	}
	if err := c.Login(ctx); err != nil {
		return nil, err
	}

	var (
		ids  []int
		seen = map[int]struct{}{}
	)
	for page := 1; page <= c.pageLimit; page++ {
		pageURL := fmt.Sprintf("%s/discs/quicksearch/%s/?page=%d", c.baseURL.String(), query, page)
		body, final, err := c.get(ctx, "search", pageURL)
		if err != nil {
			return nil, err
		}

		var found []int
		if id, ok := discIDFromPath(final); ok {
			found = []int{id}
		} else {
			found = ParseSearchResults(body)
		}
		for _, id := range found {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		c.logger.Debug("catalog search page",
			logging.String("query", query),
			logging.Int("page", page),
			logging.Int("results", len(found)))
		if len(found) <= 1 {
			break
		}
	}
	return ids, nil
}

func (c *HTTPClient) get(ctx context.Context, op, rawURL string) (string, *url.URL, error) {
	var final *url.URL
	body, err := c.withRetry(ctx, op, func(ctx context.Context) (string, *url.URL, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return "", nil, fmt.Errorf("catalog: build %s request: %w", op, err)
		}
		body, u, err := c.do(req, op)
		final = u
		return body, u, err
	})
	return body, final, err
}

// withRetry runs fn under a per-request timeout, retrying transient failures
// with exponential backoff.
func (c *HTTPClient) withRetry(ctx context.Context, op string, fn func(context.Context) (string, *url.URL, error)) (string, error) {
	attempt := 0
	for {
		reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
		body, _, err := fn(reqCtx)
		cancel()
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !IsRetriable(err) || attempt >= c.maxRetries {
			return "", err
		}
		attempt++
		backoff := backoffFor(attempt)
		c.logger.Warn("catalog request failed, retrying",
			logging.String("operation", op),
			logging.Duration("backoff", backoff),
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", c.maxRetries),
			logging.Error(err),
			logging.String(logging.FieldEventType, "catalog_retry"),
			logging.String(logging.FieldErrorHint, "check network connectivity to the catalog"),
		)
		if err := SleepWithContext(ctx, backoff); err != nil {
			return "", err
		}
	}
}

func (c *HTTPClient) do(req *http.Request, op string) (string, *url.URL, error) {
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("catalog: %s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", nil, &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", nil, fmt.Errorf("catalog: read %s response: %w", op, err)
	}
	return string(data), resp.Request.URL, nil
}

var queryReplacer = strings.NewReplacer(
	`\`, "-", "?", "-", "#", "-", "%", "-", "*", "-", ":", "-", "|", "-",
	`"`, "-", "<", "-", ">", "-", " ", "-", "\t", "-", "\n", "-", "\r", "-",
)

// SanitizeQuery replaces characters that cannot appear in a quicksearch path
// segment with dashes. Slashes are replaced unless keepSlash is set.
func SanitizeQuery(query string, keepSlash bool) string {
	query = queryReplacer.Replace(strings.TrimSpace(query))
	if !keepSlash {
		query = strings.ReplaceAll(query, "/", "-")
	}
	return query
}

// ConfigFrom maps the application configuration onto a client Config.
func ConfigFrom(cfg *config.Config, logger *slog.Logger) Config {
	return Config{
		BaseURL:        cfg.Catalog.BaseURL,
		Username:       cfg.Catalog.Username,
		Password:       cfg.Catalog.Password,
		RequestTimeout: cfg.CatalogRequestTimeout(),
		MaxRetries:     cfg.Catalog.MaxRetries,
		PageLimit:      cfg.Catalog.PageLimit,
		Logger:         logger,
	}
}
