package indexer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"xcmScope/internal/model"
)

const maxLineSize = 10 * 1024 * 1024

// BlockSource delivers blocks in ascending height order. Next returns io.EOF
// once the source is drained.
type BlockSource interface {
	Next(ctx context.Context, max int) ([]model.Block, error)
}

// JSONLSource reads one model.Block per line.
type JSONLSource struct {
	scanner *bufio.Scanner
	line    int
	done    bool
}

func NewJSONLSource(r io.Reader) *JSONLSource {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineSize)
	return &JSONLSource{scanner: scanner}
}

// Next reads up to max blocks.
func (s *JSONLSource) Next(ctx context.Context, max int) ([]model.Block, error) {
	if max <= 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if s.done {
		return nil, io.EOF
	}

	blocks := make([]model.Block, 0, max)
	for len(blocks) < max {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, fmt.Errorf("scan input: %w", err)
			}
			s.done = true
			break
		}
		s.line++

		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var block model.Block
		if err := json.Unmarshal(line, &block); err != nil {
			return nil, fmt.Errorf("parse block at line %d: %w", s.line, err)
		}
		blocks = append(blocks, block)
	}

	if len(blocks) == 0 && s.done {
		return nil, io.EOF
	}
	return blocks, nil
}
