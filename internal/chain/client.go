package chain

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

// MaxAccountsPerCall is the getMultipleAccounts limit of Solana RPC nodes.
const MaxAccountsPerCall = 100

// Client wraps a JSON-RPC connection to a Solana node.
type Client struct {
	rpcClient  *rpc.Client
	commitment string
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return &Client{rpcClient: rpcClient, commitment: "confirmed"}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// Account is a decoded account lookup result.
type Account struct {
	Address    string
	Owner      string
	Lamports   uint64
	Executable bool
	Data       []byte
}

type accountInfo struct {
	Data       []string `json:"data"`
	Executable bool     `json:"executable"`
	Lamports   uint64   `json:"lamports"`
	Owner      string   `json:"owner"`
}

type multipleAccountsResult struct {
	Context struct {
		Slot uint64 `json:"slot"`
	} `json:"context"`
	Value []*accountInfo `json:"value"`
}

// GetMultipleAccounts looks up at most MaxAccountsPerCall accounts in one call.
// Missing accounts come back as nil entries at the same index.
func (c *Client) GetMultipleAccounts(ctx context.Context, addresses []string) ([]*Account, error) {
	if len(addresses) == 0 {
		return nil, nil
	}
	if len(addresses) > MaxAccountsPerCall {
		return nil, fmt.Errorf("too many accounts: %d > %d", len(addresses), MaxAccountsPerCall)
	}

	var res multipleAccountsResult
	opts := map[string]string{"encoding": "base64", "commitment": c.commitment}
	if err := c.rpcClient.CallContext(ctx, &res, "getMultipleAccounts", addresses, opts); err != nil {
		return nil, err
	}
	if len(res.Value) != len(addresses) {
		return nil, fmt.Errorf("account count mismatch: got %d, want %d", len(res.Value), len(addresses))
	}

	out := make([]*Account, len(addresses))
	for i, info := range res.Value {
		if info == nil {
			continue
		}
		acc := &Account{
			Address:    addresses[i],
			Owner:      info.Owner,
			Lamports:   info.Lamports,
			Executable: info.Executable,
		}
		if len(info.Data) > 0 {
			if len(info.Data) > 1 && info.Data[1] != "base64" {
				return nil, fmt.Errorf("unexpected account encoding %q", info.Data[1])
			}
			data, err := base64.StdEncoding.DecodeString(info.Data[0])
			if err != nil {
				return nil, fmt.Errorf("decode account %s: %w", addresses[i], err)
			}
			acc.Data = data
		}
		out[i] = acc
	}
	return out, nil
}
