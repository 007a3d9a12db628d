// Package braintrust provides a client for the Braintrust logging API:
// project resolution and BTQL queries against a project's logs.
package braintrust

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the hosted Braintrust API endpoint.
const DefaultBaseURL = "https://api.braintrust.dev"

// fromLogs matches an unqualified "FROM logs" source in a BTQL query.
var fromLogs = regexp.MustCompile(`(?i)\bFROM\s+logs\b`)

// Client talks to the Braintrust API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a client for the given API endpoint. An empty baseURL
// selects the hosted service.
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 120 * time.Second},
		logger:  logger,
	}
}

type projectList struct {
	Objects []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"objects"`
}

// ResolveProject returns the project ID for a project name. It first asks the
// API to filter by name, then falls back to listing all projects and matching
// case-insensitively.
func (c *Client) ResolveProject(ctx context.Context, name string) (string, error) {
	filtered, err := c.listProjects(ctx, name)
	if err == nil && len(filtered.Objects) > 0 {
		return filtered.Objects[0].ID, nil
	}

	all, err := c.listProjects(ctx, "")
	if err != nil {
		return "", fmt.Errorf("list projects: %w", err)
	}
	for _, p := range all.Objects {
		if strings.EqualFold(p.Name, name) {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("project %q not found", name)
}

func (c *Client) listProjects(ctx context.Context, name string) (*projectList, error) {
	u := c.baseURL + "/v1/project"
	if name != "" {
		u += "?project_name=" + url.QueryEscape(name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error %d: %s", resp.StatusCode, truncateBody(body))
	}

	var list projectList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("unmarshal projects: %w", err)
	}
	return &list, nil
}

type btqlRequest struct {
	Query string `json:"query"`
	Fmt   string `json:"fmt"`
}

type btqlResponse struct {
	Data []Row `json:"data"`
}

// Query runs a BTQL query against a project's logs. An unqualified "FROM logs"
// source is rewritten to scope the query to projectID. A non-success status is
// logged and yields an empty row set rather than an error, matching the
// upstream contract of the analytics commands.
func (c *Client) Query(ctx context.Context, projectID, query string) ([]Row, error) {
	scoped := fromLogs.ReplaceAllString(query, fmt.Sprintf("FROM project_logs('%s')", projectID))

	body, err := json.Marshal(btqlRequest{Query: scoped, Fmt: "json"})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/btql", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("btql query failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncateBody(respBody)),
		)
		return nil, nil
	}

	var parsed btqlResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal rows: %w", err)
	}
	return parsed.Data, nil
}

func truncateBody(b []byte) string {
	const max = 200
	s := string(b)
	if len(s) > max {
		return s[:max]
	}
	return s
}
