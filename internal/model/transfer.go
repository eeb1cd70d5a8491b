package model

import (
	"math/big"
	"time"
)

// Transfer is the canonical, revision-independent XCM transfer record.
type Transfer struct {
	ID            string          `json:"id"`
	BlockNumber   uint64          `json:"block_number"`
	Timestamp     time.Time       `json:"timestamp"`
	ExtrinsicHash string          `json:"extrinsic_hash,omitempty"`
	From          string          `json:"from"`
	To            Destination     `json:"to"`
	Assets        []TransferAsset `json:"assets"`
	Fee           *big.Int        `json:"fee"`
}

// Destination is the receiving parachain and beneficiary.
// ID is the 0x-hex of the raw identity; Address is its network rendering.
type Destination struct {
	ParaID  uint32 `json:"para_id"`
	ID      string `json:"id"`
	Address string `json:"address"`
}

// TransferAsset is one transferred amount of the native token.
type TransferAsset struct {
	Token  string   `json:"token"`
	Amount *big.Int `json:"amount"`
}

// Account is a sender identity, keyed by its network-encoded address.
type Account struct {
	ID string `json:"id"`
}

// TransferBatch is the hand-off unit to a storage sink.
type TransferBatch struct {
	FromHeight uint64
	ToHeight   uint64
	Accounts   []Account
	Transfers  []Transfer
}
