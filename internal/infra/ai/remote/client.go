// Package remote talks to a running analysis service over HTTP. It implements
// analysis.Analyzer against the analysis endpoint and analysis.Repository against
// the history endpoints, so the CLI can run without direct database access.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
	"github.com/bryanwahyu/agro-inteligente/internal/infra/ai/response"
)

const (
	AnalyzePath = "/analyze-plant"
	HistoryPath = "/v1/analyses"
)

var errBadBody = errors.New("unreadable response body")

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for baseURL. httpClient may be nil; no timeout is set by
// default so the transport default applies to the analysis call.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Analyze posts {imageBase64} and decodes either the result or the {error} body.
// The result goes through the same lenient decoder as a gateway reply, so an
// unreadable body is MalformedResponse.
func (c *Client) Analyze(ctx context.Context, image string) (analysis.Result, error) {
	var raw json.RawMessage
	err := c.do(ctx, http.MethodPost, AnalyzePath, map[string]string{"imageBase64": image}, &raw)
	if err != nil {
		if errors.Is(err, errBadBody) {
			return analysis.Result{}, analysis.Malformed(err)
		}
		return analysis.Result{}, err
	}
	return response.Decode(string(raw))
}

// Insert stores a record through the service.
func (c *Client) Insert(ctx context.Context, r *analysis.Record) error {
	body := map[string]any{
		"image_url": r.ImageURL,
		"analysis":  r.Result(),
	}
	var created analysis.Record
	if err := c.do(ctx, http.MethodPost, HistoryPath, body, &created); err != nil {
		return analysis.StoreError(err)
	}
	r.ID = created.ID
	r.CreatedAt = created.CreatedAt
	return nil
}

// ListRecent fetches the latest records from the service.
func (c *Client) ListRecent(ctx context.Context, limit int) ([]*analysis.Record, error) {
	path := HistoryPath + "?limit=" + strconv.Itoa(limit)
	out := []*analysis.Record{}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, analysis.StoreError(err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, v any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshalling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("server not reachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errBadBody, err)
	}
	return nil
}

// decodeError reads the {error: string} body. Known messages are mapped back to
// their taxonomy value so callers can still branch on kind.
func decodeError(resp *http.Response) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("server returned %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) != nil || body.Error == "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	for _, known := range []*analysis.Error{
		analysis.ErrMissingInput,
		analysis.ErrRateLimited,
		analysis.ErrPaymentRequired,
		analysis.ErrEmptyCompletion,
		analysis.ErrMalformedResponse,
	} {
		if body.Error == known.Message {
			return known
		}
	}
	return errors.New(body.Error)
}
