// Package gecko reads paginated pool listings from the GeckoTerminal API.
package gecko

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"yieldScope/internal/fetch"
	"yieldScope/internal/model"
)

const (
	DefaultBaseURL = "https://api.geckoterminal.com/api/v2"
	DefaultNetwork = "eth"
	DefaultDex     = "uniswap_v3"

	pageFilePattern = "pools_page_*.json"
)

// Page is one page of the pools listing.
type Page struct {
	Data []Pool `json:"data"`
}

// Pool is a listing entry. Numeric attributes arrive as strings.
type Pool struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Attributes Attributes `json:"attributes"`
}

// Attributes are the pool fields used for ranking.
type Attributes struct {
	Name          string            `json:"name"`
	Address       string            `json:"address"`
	ReserveInUSD  *string           `json:"reserve_in_usd"`
	VolumeUSD     map[string]string `json:"volume_usd"`
	Transactions  map[string]Txns   `json:"transactions"`
	PoolCreatedAt string            `json:"pool_created_at"`
}

// Txns counts buys and sells in a window.
type Txns struct {
	Buys  int64 `json:"buys"`
	Sells int64 `json:"sells"`
}

// Record converts a listing entry into a PoolRecord. Missing or non-numeric
// reserve or volume is an error.
func (p Pool) Record() (model.PoolRecord, error) {
	attr := p.Attributes
	if strings.TrimSpace(attr.Name) == "" {
		return model.PoolRecord{}, fmt.Errorf("pool %s: missing name", p.ID)
	}
	if attr.ReserveInUSD == nil {
		return model.PoolRecord{}, fmt.Errorf("pool %s: missing reserve_in_usd", attr.Name)
	}
	reserve, err := parseAmount(*attr.ReserveInUSD)
	if err != nil {
		return model.PoolRecord{}, fmt.Errorf("pool %s: reserve_in_usd: %w", attr.Name, err)
	}
	rawVolume, ok := attr.VolumeUSD["h24"]
	if !ok {
		return model.PoolRecord{}, fmt.Errorf("pool %s: missing volume_usd.h24", attr.Name)
	}
	volume, err := parseAmount(rawVolume)
	if err != nil {
		return model.PoolRecord{}, fmt.Errorf("pool %s: volume_usd.h24: %w", attr.Name, err)
	}
	txns := attr.Transactions["h24"]

	return model.PoolRecord{
		Address:   model.NormalizeAddress(attr.Address),
		Name:      attr.Name,
		Volume24h: volume,
		Reserve:   reserve,
		Txns24h:   txns.Buys + txns.Sells,
		CreatedAt: attr.PoolCreatedAt,
	}, nil
}

// Records converts every pool of the page, collecting per-pool errors.
func (p Page) Records() ([]model.PoolRecord, []error) {
	records := make([]model.PoolRecord, 0, len(p.Data))
	var errs []error
	for _, item := range p.Data {
		rec, err := item.Record()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, rec)
	}
	return records, errs
}

// Client fetches pool pages for one network and dex.
type Client struct {
	http    *fetch.Client
	baseURL string
	network string
	dex     string
}

// NewClient builds a Client; empty values fall back to the defaults.
func NewClient(httpClient *fetch.Client, baseURL, network, dex string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if network == "" {
		network = DefaultNetwork
	}
	if dex == "" {
		dex = DefaultDex
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		network: network,
		dex:     dex,
	}
}

// FetchPage returns the decoded page and its raw body.
func (c *Client) FetchPage(ctx context.Context, page int) (Page, []byte, error) {
	endpoint := fmt.Sprintf("%s/networks/%s/dexes/%s/pools", c.baseURL, url.PathEscape(c.network), url.PathEscape(c.dex))
	raw, err := c.http.GetRaw(ctx, endpoint, url.Values{"page": {strconv.Itoa(page)}})
	if err != nil {
		return Page{}, nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	decoded, err := DecodePage(raw)
	if err != nil {
		return Page{}, nil, fmt.Errorf("page %d: %w", page, err)
	}
	return decoded, raw, nil
}

// DecodePage parses a raw page body.
func DecodePage(raw []byte) (Page, error) {
	var page Page
	if err := json.Unmarshal(raw, &page); err != nil {
		return Page{}, fmt.Errorf("decode page: %w", err)
	}
	if page.Data == nil {
		return Page{}, fmt.Errorf("decode page: missing data")
	}
	return page, nil
}

// PageFileName is the file name used when saving page n.
func PageFileName(n int) string {
	return fmt.Sprintf("pools_page_%d.json", n)
}

// PageFiles lists saved page files in dir in page order.
func PageFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, pageFilePattern))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(files, func(i, j int) bool {
		return pageNumber(files[i]) < pageNumber(files[j])
	})
	return files, nil
}

// ReadPageFile loads a saved page.
func ReadPageFile(path string) (Page, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Page{}, fmt.Errorf("read page file: %w", err)
	}
	return DecodePage(raw)
}

// SavePage writes a raw page body into dir.
func SavePage(dir string, n int, raw []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, PageFileName(n)), raw, 0o644)
}

func pageNumber(path string) int {
	base := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), "pools_page_"), ".json")
	n, err := strconv.Atoi(base)
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

func parseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	return v, nil
}
