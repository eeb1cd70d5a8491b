package chain

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// Header is the subset of a relay-chain header the indexer reads.
type Header struct {
	ParentHash string `json:"parentHash"`
	Number     string `json:"number"`
	StateRoot  string `json:"stateRoot,omitempty"`
}

// Height decodes the hex block number of the header.
func (h Header) Height() (uint64, error) {
	height, err := hexutil.DecodeUint64(h.Number)
	if err != nil {
		return 0, fmt.Errorf("decode header number %q: %w", h.Number, err)
	}
	return height, nil
}

// Client wraps a JSON-RPC connection to a relay-chain node.
type Client struct {
	rpcClient *rpc.Client

	mu          sync.RWMutex
	heightCache map[string]uint64
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return newClient(rpcClient), nil
}

func newClient(rpcClient *rpc.Client) *Client {
	return &Client{
		rpcClient:   rpcClient,
		heightCache: make(map[string]uint64),
	}
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// FinalizedHead returns the hash of the finalized head.
func (c *Client) FinalizedHead(ctx context.Context) (string, error) {
	var hash string
	if err := c.rpcClient.CallContext(ctx, &hash, "chain_getFinalizedHead"); err != nil {
		return "", err
	}
	if hash == "" {
		return "", fmt.Errorf("empty finalized head")
	}
	return hash, nil
}

// HeaderByHash returns the header of the block with the given hash.
func (c *Client) HeaderByHash(ctx context.Context, hash string) (Header, error) {
	var header *Header
	if err := c.rpcClient.CallContext(ctx, &header, "chain_getHeader", hash); err != nil {
		return Header{}, err
	}
	if header == nil {
		return Header{}, fmt.Errorf("header %s not found", hash)
	}
	return *header, nil
}

// FinalizedHeight returns the height of the finalized head. Heights are
// cached per hash since a finalized header never changes.
func (c *Client) FinalizedHeight(ctx context.Context) (uint64, error) {
	hash, err := c.FinalizedHead(ctx)
	if err != nil {
		return 0, fmt.Errorf("finalized head: %w", err)
	}

	c.mu.RLock()
	height, ok := c.heightCache[hash]
	c.mu.RUnlock()
	if ok {
		return height, nil
	}

	header, err := c.HeaderByHash(ctx, hash)
	if err != nil {
		return 0, fmt.Errorf("finalized header: %w", err)
	}
	height, err = header.Height()
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.heightCache[hash] = height
	c.mu.Unlock()

	return height, nil
}
