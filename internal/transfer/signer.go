package transfer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"xcmScope/internal/xcm"
)

// ResolveSigner returns the raw sender identity of a signer address. The
// address is either a hex string or a wrapped {"__kind": "Id"|"AccountId"}
// identity; any other wrapped kind is UnsupportedSigner.
func ResolveSigner(addr json.RawMessage) ([]byte, error) {
	raw := strings.TrimSpace(string(addr))
	if raw == "" || raw == "null" {
		return nil, xcm.Malformed("signer", fmt.Errorf("missing signer address"))
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(addr, &s); err != nil {
			return nil, xcm.Malformed("signer", err)
		}
		return decodeSignerHex(s)
	}

	var wrapped struct {
		Kind  string          `json:"__kind"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(addr, &wrapped); err != nil {
		return nil, xcm.Malformed("signer", err)
	}
	switch wrapped.Kind {
	case "Id", "AccountId":
		var s string
		if err := json.Unmarshal(wrapped.Value, &s); err != nil {
			return nil, xcm.Malformed("signer", err)
		}
		return decodeSignerHex(s)
	default:
		return nil, xcm.Errorf(xcm.KindUnsupportedSigner, "signer", "unsupported signer address variant %q", wrapped.Kind)
	}
}

func decodeSignerHex(s string) ([]byte, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, xcm.Malformed("signer", err)
	}
	if len(b) == 0 {
		return nil, xcm.Malformed("signer", fmt.Errorf("empty signer address"))
	}
	return b, nil
}
