// Package recipes is a thin client for the Spoonacular recipe API. Results
// pass through to callers unmodified; ranking and shaping are the API's job.
package recipes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.spoonacular.com"

// Client calls the Spoonacular recipe API
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a new Client. An empty baseURL uses the public API
// endpoint.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FindByIngredients returns recipes that can be made from the given
// ingredients, best matches first.
func (c *Client) FindByIngredients(ctx context.Context, ingredients []string, maxResults int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("ingredients", strings.Join(ingredients, ","))
	params.Set("number", strconv.Itoa(maxResults))
	params.Set("ranking", "1")
	params.Set("ignorePantry", "true")

	return c.get(ctx, "/recipes/findByIngredients", params)
}

// Information returns full detail for one recipe, including nutrition and
// wine pairing.
func (c *Client) Information(ctx context.Context, recipeID string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("includeNutrition", "true")
	params.Set("addWinePairing", "true")

	return c.get(ctx, fmt.Sprintf("/recipes/%s/information", recipeID), params)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling recipe api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recipe api error (status %d): %s", resp.StatusCode, string(body))
	}

	return json.RawMessage(body), nil
}
