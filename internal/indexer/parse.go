package indexer

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseParaIDs converts parachain id strings into ids.
func ParseParaIDs(inputs []string) ([]uint32, error) {
	ids := make([]uint32, 0, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		id, err := strconv.ParseUint(input, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid para id: %s", input)
		}
		ids = append(ids, uint32(id))
	}
	return ids, nil
}

// ParseSS58Prefix validates a network prefix.
func ParseSS58Prefix(prefix uint64) (uint16, error) {
	if prefix > 16383 {
		return 0, fmt.Errorf("invalid ss58 prefix: %d", prefix)
	}
	return uint16(prefix), nil
}
