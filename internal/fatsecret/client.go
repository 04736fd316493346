package fatsecret

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/nutriconsulta/backend/internal/types"
)

const (
	// DefaultBaseURL is the method-dispatch endpoint of the REST API.
	DefaultBaseURL = "https://platform.fatsecret.com/rest/server.api"
	// DefaultProfileURL is the endpoint used for profile.create.
	DefaultProfileURL = "https://platform.fatsecret.com/rest/profile/v1"
	// DefaultTimeout bounds every outbound call.
	DefaultTimeout = 30 * time.Second

	// Recommendation searches always ask for the first page of ten.
	recommendationMaxResults = 10
	recommendationPage       = 0

	maxErrorBody = 512
)

// Client issues signed calls to the FatSecret API. A Client is safe for
// concurrent use; it holds no mutable state.
type Client struct {
	creds      Credentials
	baseURL    string
	profileURL string
	httpClient *http.Client
	now        func() time.Time
	nonce      func() (string, error)
	rules      []Rule
}

// Option configures a Client
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithProfileURL(u string) Option {
	return func(c *Client) { c.profileURL = u }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithNonceSource replaces the nonce generator.
func WithNonceSource(nonce func() (string, error)) Option {
	return func(c *Client) { c.nonce = nonce }
}

// WithRules replaces the dietary rules used by GetRecommendedRecipes.
func WithRules(rules ...Rule) Option {
	return func(c *Client) { c.rules = rules }
}

// NewClient creates a new Client
func NewClient(creds Credentials, opts ...Option) *Client {
	c := &Client{
		creds:      creds,
		baseURL:    DefaultBaseURL,
		profileURL: DefaultProfileURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		now:        time.Now,
		nonce:      RandomNonce,
		rules:      DefaultRules(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Credentials returns the consumer credentials the client signs with.
func (c *Client) Credentials() Credentials {
	return c.creds
}

// WithCredentials returns a copy of the client that signs with creds. The
// receiver is left untouched.
func (c *Client) WithCredentials(creds Credentials) *Client {
	clone := *c
	clone.creds = creds
	return &clone
}

// NewRequest builds a signed request for an API method. fields are the
// method-specific parameters.
func (c *Client) NewRequest(httpMethod, endpoint, apiMethod string, fields map[string]string) (*SignedRequest, error) {
	nonce, err := c.nonce()
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"method":                 apiMethod,
		"format":                 "json",
		"oauth_consumer_key":     c.creds.ConsumerKey,
		"oauth_nonce":            nonce,
		"oauth_signature_method": SignatureMethod,
		"oauth_timestamp":        strconv.FormatInt(c.now().Unix(), 10),
		"oauth_version":          OAuthVersion,
	}
	for k, v := range fields {
		if k == paramSignature {
			continue
		}
		params[k] = v
	}

	req := &SignedRequest{Method: httpMethod, Endpoint: endpoint, Params: params}
	req.Sign(c.creds.ConsumerSecret)
	return req, nil
}

func (c *Client) call(ctx context.Context, httpMethod, endpoint, apiMethod string, fields map[string]string, out interface{}) error {
	start := time.Now()
	err := c.doCall(ctx, httpMethod, endpoint, apiMethod, fields, out)
	upstreamRequestDuration.WithLabelValues(apiMethod).Observe(time.Since(start).Seconds())
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(apiMethod, "error").Inc()
		log.Printf("[FatSecret] %s failed: %v", apiMethod, err)
		return err
	}
	upstreamRequestsTotal.WithLabelValues(apiMethod, "success").Inc()
	return nil
}

func (c *Client) doCall(ctx context.Context, httpMethod, endpoint, apiMethod string, fields map[string]string, out interface{}) error {
	signed, err := c.NewRequest(httpMethod, endpoint, apiMethod, fields)
	if err != nil {
		return &UpstreamError{Method: apiMethod, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, signed.Method, signed.URL(), nil)
	if err != nil {
		return &UpstreamError{Method: apiMethod, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Method: apiMethod, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &UpstreamError{Method: apiMethod, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := body
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return &UpstreamError{Method: apiMethod, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected response: %s", snippet)}
	}

	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &UpstreamError{Method: apiMethod, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if envelope.Error != nil {
		return &UpstreamError{Method: apiMethod, StatusCode: resp.StatusCode, Err: envelope.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &UpstreamError{Method: apiMethod, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// SearchFoods calls food.search and returns the full page of results.
func (c *Client) SearchFoods(ctx context.Context, expression string, maxResults, pageNumber int) (*FoodSearchResponse, error) {
	var out FoodSearchResponse
	err := c.call(ctx, http.MethodGet, c.baseURL, "food.search", map[string]string{
		"search_expression": expression,
		"max_results":       strconv.Itoa(maxResults),
		"page_number":       strconv.Itoa(pageNumber),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFood calls food.get.
func (c *Client) GetFood(ctx context.Context, foodID string) (*FoodDetail, error) {
	var out FoodDetailResponse
	err := c.call(ctx, http.MethodGet, c.baseURL, "food.get", map[string]string{
		"food_id": foodID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Food, nil
}

// SearchRecipes calls recipes.search.
func (c *Client) SearchRecipes(ctx context.Context, expression string, maxResults, pageNumber int) (*RecipeSearchResponse, error) {
	var out RecipeSearchResponse
	err := c.call(ctx, http.MethodGet, c.baseURL, "recipes.search", map[string]string{
		"search_expression": expression,
		"max_results":       strconv.Itoa(maxResults),
		"page_number":       strconv.Itoa(pageNumber),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRecommendedRecipes searches recipes matching the preferences and drops
// the ones that break any dietary rule.
func (c *Client) GetRecommendedRecipes(ctx context.Context, prefs types.DietaryPreferences) ([]RecipeCandidate, error) {
	query := BuildSearchQuery(prefs)
	resp, err := c.SearchRecipes(ctx, query, recommendationMaxResults, recommendationPage)
	if err != nil {
		return nil, err
	}
	return FilterRecipes(resp.Recipes.Recipe, prefs, c.rules...), nil
}

// GetRecipeDetails calls recipe.get.
func (c *Client) GetRecipeDetails(ctx context.Context, recipeID string) (*RecipeDetail, error) {
	var out RecipeDetailResponse
	err := c.call(ctx, http.MethodGet, c.baseURL, "recipe.get", map[string]string{
		"recipe_id": recipeID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Recipe, nil
}

// CreateProfile calls profile.create for userID and returns the profile's
// token pair. The client keeps signing with its own consumer credentials;
// callers that want to act as the profile must build a new client.
func (c *Client) CreateProfile(ctx context.Context, userID string) (ProfileCredentials, error) {
	var out profileResponse
	err := c.call(ctx, http.MethodPost, c.profileURL, "profile.create", map[string]string{
		"user_id": userID,
	}, &out)
	if err != nil {
		return ProfileCredentials{}, err
	}
	if out.Profile != nil && out.Profile.Valid() {
		return *out.Profile, nil
	}
	return out.ProfileCredentials, nil
}
