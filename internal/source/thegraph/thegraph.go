// Package thegraph queries the Uniswap v3 subgraph through The Graph gateway.
package thegraph

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"yieldScope/internal/fetch"
	"yieldScope/internal/model"
)

const (
	DefaultGateway    = "https://gateway.thegraph.com/api"
	UniswapV3Subgraph = "5zvR82QoaXYFyDEKLZ9t6v9adgnptxYpKpSbxtgVENFV"

	poolDayDataQuery = `query PoolDayData($pool: String!, $since: Int!, $first: Int!) {
  poolDayDatas(first: $first, orderBy: date, orderDirection: desc, where: {pool: $pool, date_gte: $since}) {
    date
    volumeUSD
    tvlUSD
    feesUSD
  }
}`
)

// Endpoint returns the gateway URL of a subgraph.
func Endpoint(gateway, subgraphID string) string {
	if gateway == "" {
		gateway = DefaultGateway
	}
	if subgraphID == "" {
		subgraphID = UniswapV3Subgraph
	}
	return fmt.Sprintf("%s/subgraphs/id/%s", strings.TrimRight(gateway, "/"), subgraphID)
}

// AuthHeaders returns the headers carrying the gateway API key, if any.
func AuthHeaders(apiKey string) map[string]string {
	if apiKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + apiKey}
}

// Client sends GraphQL queries to one subgraph endpoint.
type Client struct {
	http     *fetch.Client
	endpoint string
	now      func() time.Time
}

// NewClient builds a Client for endpoint.
func NewClient(httpClient *fetch.Client, endpoint string) *Client {
	return &Client{http: httpClient, endpoint: endpoint, now: time.Now}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Query runs a GraphQL query and decodes its data field into out.
func (c *Client) Query(ctx context.Context, query string, vars map[string]any, out any) error {
	var resp graphQLResponse
	if err := c.http.PostJSON(ctx, c.endpoint, graphQLRequest{Query: query, Variables: vars}, &resp); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("graphql errors: %s", strings.Join(msgs, "; "))
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return fmt.Errorf("graphql response without data")
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decode graphql data: %w", err)
	}
	return nil
}

type rawDayData struct {
	Date      int64  `json:"date"`
	VolumeUSD string `json:"volumeUSD"`
	TVLUSD    string `json:"tvlUSD"`
	FeesUSD   string `json:"feesUSD"`
}

// PoolDayData returns up to days daily records for pool, newest first.
// An empty series is not an error.
func (c *Client) PoolDayData(ctx context.Context, poolAddress string, days int) ([]model.DayData, error) {
	if days <= 0 {
		return nil, fmt.Errorf("lookback days must be positive")
	}
	since := c.now().Add(-time.Duration(days) * 24 * time.Hour).Unix()

	var data struct {
		PoolDayDatas []rawDayData `json:"poolDayDatas"`
	}
	vars := map[string]any{
		"pool":  strings.ToLower(poolAddress),
		"since": since,
		"first": days,
	}
	if err := c.Query(ctx, poolDayDataQuery, vars, &data); err != nil {
		return nil, fmt.Errorf("pool day data %s: %w", poolAddress, err)
	}

	out := make([]model.DayData, 0, len(data.PoolDayDatas))
	for _, raw := range data.PoolDayDatas {
		day, err := raw.parse()
		if err != nil {
			return nil, fmt.Errorf("pool day data %s: %w", poolAddress, err)
		}
		out = append(out, day)
	}
	return out, nil
}

func (r rawDayData) parse() (model.DayData, error) {
	volume, err := parseDecimal(r.VolumeUSD)
	if err != nil {
		return model.DayData{}, fmt.Errorf("day %d volumeUSD: %w", r.Date, err)
	}
	tvl, err := parseDecimal(r.TVLUSD)
	if err != nil {
		return model.DayData{}, fmt.Errorf("day %d tvlUSD: %w", r.Date, err)
	}
	fees, err := parseDecimal(r.FeesUSD)
	if err != nil {
		return model.DayData{}, fmt.Errorf("day %d feesUSD: %w", r.Date, err)
	}
	return model.DayData{Date: r.Date, VolumeUSD: volume, TVLUSD: tvl, FeesUSD: fees}, nil
}

func parseDecimal(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}
