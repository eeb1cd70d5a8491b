package ss58

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

const defaultCacheSize = 4096

// Codec encodes public keys under a fixed network prefix. Signers and
// beneficiaries repeat heavily across blocks, so encoded addresses are kept
// in an LRU cache keyed by the raw key bytes.
type Codec struct {
	prefix uint16
	cache  *lru.Cache
}

// NewCodec returns a Codec for prefix. cacheSize <= 0 selects the default.
func NewCodec(prefix uint16, cacheSize int) (*Codec, error) {
	if _, err := prefixBytes(prefix); err != nil {
		return nil, err
	}
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("ss58 cache: %w", err)
	}
	return &Codec{prefix: prefix, cache: cache}, nil
}

// Prefix returns the network prefix of the codec.
func (c *Codec) Prefix() uint16 {
	return c.prefix
}

// Encode returns the SS58 address of pub.
func (c *Codec) Encode(pub []byte) (string, error) {
	key := string(pub)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(string), nil
	}
	addr, err := Encode(pub, c.prefix)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, addr)
	return addr, nil
}
