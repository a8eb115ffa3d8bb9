package model

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// PoolRecord is a liquidity pool snapshot as returned by a pool listing.
type PoolRecord struct {
	Address   string   `json:"address"`
	Name      string   `json:"name"`
	TokenA    string   `json:"token_a,omitempty"`
	TokenB    string   `json:"token_b,omitempty"`
	FeeTier   *float64 `json:"fee_tier"`
	Volume24h float64  `json:"volume_24h"`
	Reserve   float64  `json:"reserve_usd"`
	Txns24h   int64    `json:"txns_24h"`
	CreatedAt string   `json:"pool_created_at"`
}

// NormalizeAddress lower-cases valid hex addresses and trims anything else.
func NormalizeAddress(address string) string {
	address = strings.TrimSpace(address)
	if common.IsHexAddress(address) {
		return strings.ToLower(common.HexToAddress(address).Hex())
	}
	return address
}

// CreatedDate returns the date part of CreatedAt.
func (p PoolRecord) CreatedDate() string {
	if len(p.CreatedAt) >= 10 {
		return p.CreatedAt[:10]
	}
	return p.CreatedAt
}

// IsAddress reports whether address is a 20-byte hex address.
func IsAddress(address string) bool {
	return common.IsHexAddress(strings.TrimSpace(address))
}
