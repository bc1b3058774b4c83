package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/interfaces"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/types"
	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/logging"
	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/safe"
)

// DefaultLookbackDays bounds how far back the registry search goes
// (three years, matching the public registry's practical window).
const DefaultLookbackDays = 3 * 365

// Client talks to the external browser-automation service that scrapes the
// public case registry. The service returns extracted document text; Client
// stages each document as a file under the caller's directory.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	lookbackDays int
}

var _ interfaces.DocumentFetcher = &Client{}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (mainly for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLookbackDays overrides the registry search window.
func WithLookbackDays(days int) Option {
	return func(c *Client) {
		if days > 0 {
			c.lookbackDays = days
		}
	}
}

// New creates a retrieval service client.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("document retrieval service URL is required")
	}

	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 5 * time.Minute},
		lookbackDays: DefaultLookbackDays,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type fetchRequest struct {
	Query        string `json:"query"`
	CaseType     string `json:"case_type"`
	LookbackDays int    `json:"lookback_days"`
}

type fetchResponse struct {
	Documents []fetchedDocument `json:"documents"`
}

type fetchedDocument struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Fetch asks the retrieval service for all documents matching the query and
// writes each one as a text file under destDir. Zero documents is a valid
// outcome, not an error.
func (c *Client) Fetch(ctx context.Context, query string, caseType types.CaseType, destDir string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create staging directory", goerr.V("dir", destDir))
	}

	body, err := json.Marshal(fetchRequest{
		Query:        query,
		CaseType:     caseType.String(),
		LookbackDays: c.lookbackDays,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode fetch request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/fetch", bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create fetch request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "document retrieval request failed", goerr.V("query", query))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, goerr.New("document retrieval service returned an error",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(data)),
		)
	}

	var fetched fetchResponse
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		return nil, goerr.Wrap(err, "failed to decode fetch response")
	}

	paths := make([]string, 0, len(fetched.Documents))
	for i, doc := range fetched.Documents {
		name := sanitizeFileName(doc.Name)
		if name == "" {
			name = fmt.Sprintf("document_%d", i+1)
		}
		if !strings.HasSuffix(name, ".txt") {
			name += ".txt"
		}

		path := filepath.Join(destDir, name)
		if err := os.WriteFile(path, []byte(doc.Content), 0o644); err != nil {
			return nil, goerr.Wrap(err, "failed to stage document", goerr.V("path", path))
		}
		paths = append(paths, path)
	}

	logging.From(ctx).Info("fetched case documents",
		"query", query,
		"caseType", caseType,
		"documents", len(paths),
	)
	return paths, nil
}

var (
	unsafeFileChars = regexp.MustCompile(`[\\/*?:"<>|]`)
	fileNameSpaces  = regexp.MustCompile(`\s+`)
)

func sanitizeFileName(name string) string {
	name = unsafeFileChars.ReplaceAllString(name, "_")
	name = fileNameSpaces.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}
