// Package coingecko reads market data from the CoinGecko public API.
package coingecko

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"yieldScope/internal/fetch"
	"yieldScope/internal/model"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	maxPerPage     = 250
)

type Client struct {
	http    *fetch.Client
	baseURL string
}

func NewClient(httpClient *fetch.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

type market struct {
	ID            string   `json:"id"`
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	MarketCapRank *int     `json:"market_cap_rank"`
	MarketCap     *float64 `json:"market_cap"`
}

// TopCoins returns the n largest coins by market cap, rank ascending.
// Symbols are upper-cased.
func (c *Client) TopCoins(ctx context.Context, n int) ([]model.Coin, error) {
	if n <= 0 {
		return nil, fmt.Errorf("top coins: n must be positive")
	}
	var coins []model.Coin
	for page := 1; len(coins) < n; page++ {
		perPage := n - len(coins)
		if perPage > maxPerPage {
			perPage = maxPerPage
		}
		params := url.Values{
			"vs_currency": {"usd"},
			"order":       {"market_cap_desc"},
			"per_page":    {strconv.Itoa(perPage)},
			"page":        {strconv.Itoa(page)},
		}
		var markets []market
		if err := c.http.GetJSON(ctx, c.baseURL+"/coins/markets", params, &markets); err != nil {
			return nil, fmt.Errorf("fetch coin markets page %d: %w", page, err)
		}
		for _, m := range markets {
			coin := model.Coin{ID: m.ID, Symbol: strings.ToUpper(m.Symbol), Name: m.Name}
			if m.MarketCapRank != nil {
				coin.MarketCapRank = *m.MarketCapRank
			}
			if m.MarketCap != nil {
				coin.MarketCap = *m.MarketCap
			}
			coins = append(coins, coin)
		}
		if len(markets) < perPage {
			break
		}
	}
	if len(coins) > n {
		coins = coins[:n]
	}
	return coins, nil
}

// Symbols extracts the symbol list stored in the allowlist snapshot.
func Symbols(coins []model.Coin) []string {
	out := make([]string, 0, len(coins))
	for _, c := range coins {
		out = append(out, c.Symbol)
	}
	return out
}

// SimplePrice returns the price of coin id in the vs currency.
func (c *Client) SimplePrice(ctx context.Context, id, vs string) (float64, error) {
	params := url.Values{"ids": {id}, "vs_currencies": {vs}}
	var resp map[string]map[string]float64
	if err := c.http.GetJSON(ctx, c.baseURL+"/simple/price", params, &resp); err != nil {
		return 0, fmt.Errorf("fetch price %s/%s: %w", id, vs, err)
	}
	price, ok := resp[id][vs]
	if !ok {
		return 0, fmt.Errorf("fetch price %s/%s: missing from response", id, vs)
	}
	return price, nil
}
