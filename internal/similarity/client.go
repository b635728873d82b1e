package similarity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/blakearchive/sfmscripts/pkg/models"
	"golang.org/x/time/rate"
)

// Config holds similarity service client configuration.
type Config struct {
	Addr      string        // service host, e.g. "127.0.0.1"
	Port      int           // service port, e.g. 8080
	PageSize  int           // items per listing page
	RateLimit float64       // max requests per second, 0 = unlimited
	Timeout   time.Duration // per-request timeout
}

// Client issues paginated GET requests against the similarity service and
// decodes its JSON responses. It performs no retries: transient failures
// propagate to the caller unchanged.
type Client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a new similarity service client.
func New(config Config) (*Client, error) {
	if config.Addr == "" {
		return nil, fmt.Errorf("service address is required")
	}
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.PageSize == 0 {
		config.PageSize = 100
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &Client{
		baseURL:  "http://" + net.JoinHostPort(config.Addr, strconv.Itoa(config.Port)) + "/",
		pageSize: config.PageSize,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: limiter,
	}, nil
}

// BaseURL returns the root URL requests are issued against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get requests the resource at the joined path segments and returns the raw
// response body. Connection failures wrap ErrUnreachable; non-2xx statuses
// wrap ErrUnexpectedResponse.
func (c *Client) Get(ctx context.Context, segments ...string) ([]byte, error) {
	return c.get(ctx, strings.Join(segments, "/"), nil)
}

// GetJSON requests the resource at the joined path segments and decodes the
// JSON body into v. Undecodable bodies wrap ErrUnexpectedResponse.
func (c *Client) GetJSON(ctx context.Context, v any, segments ...string) error {
	return c.getJSON(ctx, strings.Join(segments, "/"), nil, v)
}

func (c *Client) get(ctx context.Context, p string, query url.Values) ([]byte, error) {
	u := c.baseURL + p
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", u, err)
	}

	slog.Debug("service request", "url", u)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w: %v", u, ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: %w: status %d", u, ErrUnexpectedResponse, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w: %v", u, ErrUnreachable, err)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, p string, query url.Values, v any) error {
	body, err := c.get(ctx, p, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w: %v", p, ErrUnexpectedResponse, err)
	}
	return nil
}

// Status fetches the service's health/info resource.
func (c *Client) Status(ctx context.Context) (models.Status, error) {
	var status models.Status
	if err := c.GetJSON(ctx, &status, "status"); err != nil {
		return models.Status{}, err
	}
	return status, nil
}

// page is the service's pagination envelope. An empty next cursor means the
// listing is complete.
type page struct {
	Rows    []json.RawMessage `json:"rows"`
	Cursors struct {
		Next string `json:"next"`
	} `json:"cursors"`
}

// Documents returns a lazy cursor over every document in the service,
// walking the document listing page by page in service-returned order.
func (c *Client) Documents(ctx context.Context) *Cursor[*Document] {
	return newCursor(func(ctx context.Context, cursor string) ([]*Document, string, error) {
		query := url.Values{"limit": {strconv.Itoa(c.pageSize)}}
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		var pg page
		if err := c.getJSON(ctx, "document", query, &pg); err != nil {
			return nil, "", err
		}

		docs := make([]*Document, 0, len(pg.Rows))
		for _, raw := range pg.Rows {
			var row models.DocumentRow
			if err := json.Unmarshal(raw, &row); err != nil {
				return nil, "", fmt.Errorf("decode document row: %w: %v", ErrUnexpectedResponse, err)
			}
			if row.Title == "" {
				return nil, "", fmt.Errorf("document row missing title: %w", ErrUnexpectedResponse)
			}
			docs = append(docs, c.documentFromRow(row))
		}
		return docs, pg.Cursors.Next, nil
	})
}
