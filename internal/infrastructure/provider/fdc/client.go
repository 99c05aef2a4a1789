// Package fdc provides a USDA FoodData Central adapter for nutrition
// profile lookups. Raw provider shapes never leave this package; both
// known nutrient-list layouts are normalized into the domain Profile at
// the boundary.
package fdc

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

	"github.com/wodplate/v2/internal/domain/nutrition"
	"github.com/wodplate/v2/internal/infrastructure/config"
	"github.com/wodplate/v2/internal/infrastructure/monitoring"
	"github.com/wodplate/v2/internal/ports/outbound"
	"github.com/wodplate/v2/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// FoodData Central nutrient numbers for the four tracked macros.
const (
	nutrientIDEnergy  = 1008
	nutrientIDProtein = 1003
	nutrientIDCarbs   = 1005
	nutrientIDFat     = 1004
)

// Fallback name matching for responses that omit nutrient numbers.
// Keys are lowercased.
var nutrientNameSynonyms = map[string]string{
	"energy":                      "calories",
	"calories":                    "calories",
	"protein":                     "protein",
	"carbohydrate, by difference": "carbs",
	"carbohydrates":               "carbs",
	"carbs":                       "carbs",
	"total lipid (fat)":           "fat",
	"total fat":                   "fat",
	"fat":                         "fat",
}

// Client implements the NutritionProvider port against FoodData Central.
type Client struct {
	baseURL  string
	apiKey   string
	pageSize int
	client   *http.Client
	limiter  *rate.Limiter
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewClient creates a new FoodData Central client. Calls are rate
// limited to stay inside the FDC API quota.
func NewClient(cfg config.ProviderConfig, metrics *monitoring.Metrics, logger *zap.Logger) outbound.NutritionProvider {
	pageSize := cfg.SearchPageSize
	if pageSize <= 0 {
		pageSize = 5
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		pageSize: pageSize,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		metrics: metrics,
		logger:  logger.Named("fdc-client"),
	}
}

type searchResponse struct {
	Foods []searchFood `json:"foods"`
}

type searchFood struct {
	FdcID       int64   `json:"fdcId"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

type foodDetail struct {
	FdcID         int64         `json:"fdcId"`
	Description   string        `json:"description"`
	FoodNutrients []rawNutrient `json:"foodNutrients"`
}

// rawNutrient covers both nutrient-list shapes FDC returns: flat
// (nutrientId/nutrientName/value, search results) and nested
// (nutrient{id,name}/amount, detail endpoint).
type rawNutrient struct {
	NutrientID   int     `json:"nutrientId"`
	NutrientName string  `json:"nutrientName"`
	Value        float64 `json:"value"`
	Amount       float64 `json:"amount"`
	Nutrient     *struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"nutrient"`
}

func (n rawNutrient) id() int {
	if n.Nutrient != nil {
		return n.Nutrient.ID
	}
	return n.NutrientID
}

func (n rawNutrient) name() string {
	if n.Nutrient != nil {
		return n.Nutrient.Name
	}
	return n.NutrientName
}

func (n rawNutrient) value() float64 {
	if n.Nutrient != nil {
		return n.Amount
	}
	return n.Value
}

// Search queries FDC by free-text search and returns a small bounded
// candidate list in provider-ranked order. Selection downstream is
// take-first: FDC's own relevance ranking is trusted as-is. That
// heuristic can mis-resolve ambiguous names; substituting a fuzzy
// matcher is a deliberate design change, not a drop-in fix.
func (c *Client) Search(ctx context.Context, query string) ([]outbound.FoodCandidate, error) {
	c.metrics.ProviderCalls.WithLabelValues("search").Inc()

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", nutrition.Normalize(query))
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	params.Set("dataType", "SR Legacy,Foundation")

	body, err := c.get(ctx, c.baseURL+"/foods/search?"+params.Encode())
	if err != nil {
		c.metrics.ProviderFailures.WithLabelValues("search").Inc()
		return nil, errors.NewProviderError("search foods", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.metrics.ProviderFailures.WithLabelValues("search").Inc()
		return nil, errors.NewProviderError("decode search response", err)
	}

	candidates := make([]outbound.FoodCandidate, 0, len(resp.Foods))
	for _, f := range resp.Foods {
		candidates = append(candidates, outbound.FoodCandidate{
			ID:          strconv.FormatInt(f.FdcID, 10),
			Description: f.Description,
			Score:       f.Score,
		})
	}

	c.logger.Debug("FDC search completed",
		zap.String("query", query),
		zap.Int("candidates", len(candidates)),
	)

	return candidates, nil
}

// FetchDetails retrieves one food's nutrient list and extracts the four
// macros. Unmatched macros default to 0 so downstream arithmetic is
// always well-defined.
func (c *Client) FetchDetails(ctx context.Context, id string) (*nutrition.Profile, error) {
	c.metrics.ProviderCalls.WithLabelValues("details").Inc()

	params := url.Values{}
	params.Set("api_key", c.apiKey)

	body, err := c.get(ctx, c.baseURL+"/food/"+url.PathEscape(id)+"?"+params.Encode())
	if err != nil {
		c.metrics.ProviderFailures.WithLabelValues("details").Inc()
		return nil, errors.NewProviderError("fetch food details", err)
	}

	var detail foodDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		c.metrics.ProviderFailures.WithLabelValues("details").Inc()
		return nil, errors.NewProviderError("decode food details", err)
	}

	profile := extractProfile(detail.FoodNutrients)
	return &profile, nil
}

// extractProfile matches on the stable nutrient-number table first and
// falls back to case-insensitive name matching.
func extractProfile(nutrients []rawNutrient) nutrition.Profile {
	var profile nutrition.Profile
	for _, n := range nutrients {
		switch n.id() {
		case nutrientIDEnergy:
			profile.Calories = n.value()
			continue
		case nutrientIDProtein:
			profile.ProteinG = n.value()
			continue
		case nutrientIDCarbs:
			profile.CarbsG = n.value()
			continue
		case nutrientIDFat:
			profile.FatG = n.value()
			continue
		}

		switch nutrientNameSynonyms[strings.ToLower(strings.TrimSpace(n.name()))] {
		case "calories":
			profile.Calories = n.value()
		case "protein":
			profile.ProteinG = n.value()
		case "carbs":
			profile.CarbsG = n.value()
		case "fat":
			profile.FatG = n.value()
		}
	}
	return profile
}

// get performs a rate-limited GET and returns the body on a 2xx status.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	c.logger.Debug("FDC request completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	return body, nil
}
