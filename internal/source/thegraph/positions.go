package thegraph

import (
	"context"
	"fmt"
	"strings"
)

const positionsQuery = `query Positions($owner: String!) {
  positions(where: {owner: $owner}) {
    id
    liquidity
    depositedToken0
    depositedToken1
    withdrawnToken0
    withdrawnToken1
    collectedFeesToken0
    collectedFeesToken1
    pool {
      id
      token0 { symbol decimals }
      token1 { symbol decimals }
      feeTier
      sqrtPrice
      tick
    }
    tickLower { tickIdx }
    tickUpper { tickIdx }
  }
}`

// Token is a pool token as exposed by the subgraph.
type Token struct {
	Symbol   string `json:"symbol"`
	Decimals string `json:"decimals"`
}

// PositionPool is the pool a position belongs to.
type PositionPool struct {
	ID        string `json:"id"`
	Token0    Token  `json:"token0"`
	Token1    Token  `json:"token1"`
	FeeTier   string `json:"feeTier"`
	SqrtPrice string `json:"sqrtPrice"`
	Tick      string `json:"tick"`
}

// Tick is a tick boundary.
type Tick struct {
	TickIdx string `json:"tickIdx"`
}

// Position is a raw subgraph position; amounts are decimal strings.
type Position struct {
	ID                  string       `json:"id"`
	Liquidity           string       `json:"liquidity"`
	DepositedToken0     string       `json:"depositedToken0"`
	DepositedToken1     string       `json:"depositedToken1"`
	WithdrawnToken0     string       `json:"withdrawnToken0"`
	WithdrawnToken1     string       `json:"withdrawnToken1"`
	CollectedFeesToken0 string       `json:"collectedFeesToken0"`
	CollectedFeesToken1 string       `json:"collectedFeesToken1"`
	Pool                PositionPool `json:"pool"`
	TickLower           Tick         `json:"tickLower"`
	TickUpper           Tick         `json:"tickUpper"`
}

// Positions returns every position owned by wallet.
func (c *Client) Positions(ctx context.Context, wallet string) ([]Position, error) {
	var data struct {
		Positions []Position `json:"positions"`
	}
	if err := c.Query(ctx, positionsQuery, map[string]any{"owner": strings.ToLower(wallet)}, &data); err != nil {
		return nil, fmt.Errorf("positions %s: %w", wallet, err)
	}
	return data.Positions, nil
}
