package catalog

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

	"github.com/tidwall/gjson"
)

// DefaultURL is the public read-only game data API.
const DefaultURL = "https://api.tarkov.dev/graphql"

// DefaultTimeout bounds a single catalog request.
const DefaultTimeout = 15 * time.Second

// ErrNoData is returned when the API answers without a data object.
var ErrNoData = errors.New("no data returned from GraphQL")

// TasksQuery fetches every quest with the fields the planner needs.
const TasksQuery = `
query {
  tasks {
    id name minPlayerLevel kappaRequired
    trader { name }
    objectives {
      __typename
      id type maps { name } description
      ... on TaskObjectiveItem {
        item { id name iconLink }
        items { id name iconLink }
        count
        foundInRaid
      }
    }
    taskRequirements { task { id } }
    neededKeys { keys { id name } }
  }
}`

// HideoutQuery fetches hideout stations and their per-level item costs.
const HideoutQuery = `
query {
  hideoutStations {
    id
    name
    levels {
      level
      itemRequirements {
        item { id name iconLink }
        count
      }
    }
  }
}`

// Client talks to the GraphQL catalog API.
type Client struct {
	URL  string
	HTTP *http.Client
}

// NewClient creates a Client. Empty url and zero timeout fall back to the
// defaults.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{URL: url, HTTP: &http.Client{Timeout: timeout}}
}

// Query posts a GraphQL query and returns the raw "data" object.
func (c *Client) Query(ctx context.Context, query string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", c.URL, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GraphQL %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("GraphQL response is not valid JSON")
	}

	if errs := gjson.GetBytes(payload, "errors"); errs.IsArray() && len(errs.Array()) > 0 {
		return nil, fmt.Errorf("GraphQL errors: %s", errs.Raw)
	}

	data := gjson.GetBytes(payload, "data")
	if !data.Exists() || data.Type == gjson.Null {
		return nil, ErrNoData
	}
	return []byte(data.Raw), nil
}

// FetchTasks downloads the quest catalog as a raw data object, ready for
// ParseTasks or a snapshot file.
func (c *Client) FetchTasks(ctx context.Context) ([]byte, error) {
	return c.Query(ctx, TasksQuery)
}

// FetchHideout downloads the hideout station catalog.
func (c *Client) FetchHideout(ctx context.Context) ([]byte, error) {
	return c.Query(ctx, HideoutQuery)
}
