package indexer

import (
	"fmt"

	"xcmScope/internal/model"
)

// BlockRange represents an inclusive block range. A zero To means unbounded.
type BlockRange struct {
	From uint64
	To   uint64
}

// Contains reports whether height falls inside the range.
func (r BlockRange) Contains(height uint64) bool {
	return height >= r.From && (r.To == 0 || height <= r.To)
}

// Past reports whether height lies beyond the end of a bounded range.
func (r BlockRange) Past(height uint64) bool {
	return r.To != 0 && height > r.To
}

// SpanOf returns the height range covered by blocks and checks that heights
// are strictly ascending.
func SpanOf(blocks []model.Block) (BlockRange, error) {
	if len(blocks) == 0 {
		return BlockRange{}, fmt.Errorf("empty batch")
	}
	for i := 1; i < len(blocks); i++ {
		if blocks[i].Height <= blocks[i-1].Height {
			return BlockRange{}, fmt.Errorf("blocks out of order: %d after %d", blocks[i].Height, blocks[i-1].Height)
		}
	}
	return BlockRange{From: blocks[0].Height, To: blocks[len(blocks)-1].Height}, nil
}

// Clip keeps the blocks inside r and reports whether the source has moved
// past its end.
func Clip(blocks []model.Block, r BlockRange) ([]model.Block, bool) {
	out := make([]model.Block, 0, len(blocks))
	for _, block := range blocks {
		if r.Past(block.Height) {
			return out, true
		}
		if r.Contains(block.Height) {
			out = append(out, block)
		}
	}
	return out, false
}
