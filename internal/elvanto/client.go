package elvanto

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// pageSize is the page_size sent to every list endpoint.
const pageSize = 100

// Client is an Elvanto API client. Every endpoint is a POST of a JSON body to
// /<endpoint>.json with the API key as basic-auth username ("x" as password).
// The client is scoped to one API key and carries no state between calls:
// there is no caching and deliberately no retrying, a failed call surfaces
// immediately.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a client for the given base URL and API key. timeout is
// the fixed per-request deadline applied to every remote call.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetBasicAuth(apiKey, "x").
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:   httpClient,
		logger: logger,
	}
}

// GroupsWithPeople fetches all groups with the "people" field expanded.
func (c *Client) GroupsWithPeople(ctx context.Context) ([]Group, error) {
	return fetchAll[Group](ctx, c, "groups/getAll", "groups", "group", []string{"people"})
}

// GroupsWithCategories fetches all groups with the "categories" field
// expanded. The API cannot expand people and categories in one call, so
// callers join the two collections with MergeGroupCategories.
func (c *Client) GroupsWithCategories(ctx context.Context) ([]Group, error) {
	return fetchAll[Group](ctx, c, "groups/getAll", "groups", "group", []string{"categories"})
}

// PeopleWithDepartments fetches all people with their department tree and
// demographic tags. No filtering happens here; ShouldInclude runs on the
// returned records.
func (c *Client) PeopleWithDepartments(ctx context.Context) ([]Person, error) {
	return fetchAll[Person](ctx, c, "people/getAll", "people", "person", []string{"departments", "demographics"})
}

// PeopleCategories fetches all people categories.
func (c *Client) PeopleCategories(ctx context.Context) ([]Category, error) {
	return c.fetchCategories(ctx, "people/categories/getAll")
}

// GroupCategories fetches all group categories.
func (c *Client) GroupCategories(ctx context.Context) ([]Category, error) {
	return c.fetchCategories(ctx, "groups/categories/getAll")
}

func (c *Client) fetchCategories(ctx context.Context, endpoint string) ([]Category, error) {
	envelope, err := c.post(ctx, endpoint, map[string]any{})
	if err != nil {
		return nil, err
	}
	var container struct {
		Category OneOrMany[Category] `json:"category"`
	}
	if raw, ok := envelope["categories"]; ok {
		if err := unmarshalObject(raw, &container); err != nil {
			return nil, fmt.Errorf("invalid categories payload: %w", err)
		}
	}
	return container.Category, nil
}

// listMeta is the pagination block every list collection carries.
type listMeta struct {
	Total      Int `json:"total"`
	PerPage    Int `json:"per_page"`
	OnThisPage Int `json:"on_this_page"`
}

// fetchAll pages through a list endpoint until exhaustion and returns the
// concatenated items. collectionTag is the envelope field holding the page
// ("groups", "people"), itemTag the one-or-many item field inside it
// ("group", "person"). It stops when a page returns fewer items than the page
// size, when the accumulated count reaches the server-reported total, or
// immediately when a page carries no items at all (malformed responses must
// not loop forever). Any transport or API error aborts the whole fetch.
func fetchAll[T any](ctx context.Context, c *Client, endpoint, collectionTag, itemTag string, fields []string) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		body := map[string]any{
			"page":      page,
			"page_size": pageSize,
			"fields":    fields,
		}
		envelope, err := c.post(ctx, endpoint, body)
		if err != nil {
			return nil, err
		}

		collectionRaw, ok := envelope[collectionTag]
		if !ok {
			break
		}
		var collection map[string]json.RawMessage
		if err := unmarshalObject(collectionRaw, &collection); err != nil || collection == nil {
			break
		}

		var items OneOrMany[T]
		if raw, ok := collection[itemTag]; ok {
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, fmt.Errorf("invalid %s payload: %w", endpoint, err)
			}
		}
		if len(items) == 0 {
			break
		}
		all = append(all, items...)

		var meta listMeta
		_ = unmarshalObject(collectionRaw, &meta)
		perPage := int(meta.PerPage)
		if perPage == 0 {
			perPage = pageSize
		}
		onThisPage := int(meta.OnThisPage)
		if onThisPage == 0 {
			onThisPage = len(items)
		}
		if onThisPage < perPage || len(all) >= int(meta.Total) {
			break
		}
	}
	c.logger.Debug("Elvanto fetch complete",
		zap.String("endpoint", endpoint),
		zap.Int("records", len(all)),
	)
	return all, nil
}

// post executes one API call and returns the decoded response envelope. A
// non-"ok" status field is an application-level error and surfaces with the
// upstream message.
func (c *Client) post(ctx context.Context, endpoint string, body map[string]any) (map[string]json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/" + endpoint + ".json")
	if err != nil {
		c.logger.Error("Elvanto request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("Elvanto request failed",
			zap.String("endpoint", endpoint),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("request failed: %s returned %s", endpoint, resp.Status())
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("invalid JSON response from %s: %w", endpoint, err)
	}

	if raw, ok := envelope["status"]; ok {
		var status string
		_ = json.Unmarshal(raw, &status)
		if status != "ok" {
			msg := apiErrorMessage(envelope)
			c.logger.Error("Elvanto API returned error",
				zap.String("endpoint", endpoint),
				zap.String("message", msg),
			)
			return nil, fmt.Errorf("elvanto API error: %s", msg)
		}
	}
	return envelope, nil
}

func apiErrorMessage(envelope map[string]json.RawMessage) string {
	var apiErr struct {
		Message string `json:"message"`
	}
	if raw, ok := envelope["error"]; ok {
		if err := unmarshalObject(raw, &apiErr); err == nil && apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return "unknown Elvanto API error"
}
