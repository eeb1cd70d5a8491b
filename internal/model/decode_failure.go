package model

// DecodeFailure records an extrinsic that could not be decoded.
type DecodeFailure struct {
	BlockHeight   uint64 `json:"block_height"`
	ExtrinsicID   string `json:"extrinsic_id"`
	ExtrinsicHash string `json:"extrinsic_hash"`
	Call          string `json:"call"`
	Kind          string `json:"kind"`
	Reason        string `json:"reason"`
}
