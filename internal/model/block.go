package model

import (
	"encoding/json"
	"fmt"
)

// Block is one relay-chain block as delivered by the retrieval collaborator,
// with its extrinsics in block order.
type Block struct {
	Height     uint64      `json:"height"`
	Hash       string      `json:"hash,omitempty"`
	Timestamp  int64       `json:"timestamp"`
	Extrinsics []Extrinsic `json:"extrinsics"`
}

// Extrinsic is an already-parsed extrinsic. Fee is an unsigned integer given
// as a JSON number or string; Signature is nil for unsigned extrinsics.
type Extrinsic struct {
	ID        string          `json:"id,omitempty"`
	Index     uint32          `json:"index"`
	Hash      string          `json:"hash,omitempty"`
	Fee       json.RawMessage `json:"fee,omitempty"`
	Signature *Signature      `json:"signature,omitempty"`
	Call      Call            `json:"call"`
}

// Signature carries the signer address: a raw hex string or a wrapped
// {"__kind": "Id", "value": "0x..."} identity.
type Signature struct {
	Address json.RawMessage `json:"address"`
}

// Call is the decoded call payload. Hash is the runtime's call-type hash for
// Name at the containing block and selects the argument layout.
type Call struct {
	Name string          `json:"name"`
	Hash string          `json:"hash"`
	Args json.RawMessage `json:"args"`
}

// RecordID returns the extrinsic id, falling back to <height>-<index>.
func (e Extrinsic) RecordID(height uint64) string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("%010d-%06d", height, e.Index)
}

// HasSigner reports whether the extrinsic carries a signer address.
func (e Extrinsic) HasSigner() bool {
	if e.Signature == nil {
		return false
	}
	addr := e.Signature.Address
	return len(addr) > 0 && string(addr) != "null"
}
