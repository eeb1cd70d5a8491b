package xcm

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// tagged is the wire shape of an enum value: {"__kind": "...", "value": ...}.
// Struct variants carry their fields next to __kind instead of under value.
type tagged struct {
	Kind  string          `json:"__kind"`
	Value json.RawMessage `json:"value"`
}

func parseTagged(subject string, data json.RawMessage) (tagged, error) {
	var t tagged
	if len(data) == 0 {
		return tagged{}, Malformed(subject, fmt.Errorf("missing value"))
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return tagged{}, Malformed(subject, err)
	}
	if t.Kind == "" {
		return tagged{}, Malformed(subject, fmt.Errorf("missing __kind"))
	}
	return t, nil
}

// ParseVersionedLocation parses a {"__kind": "V0"|"V1"|"V2"} location.
func ParseVersionedLocation(data json.RawMessage) (VersionedLocation, error) {
	t, err := parseTagged("location", data)
	if err != nil {
		return nil, err
	}
	switch Version(t.Kind) {
	case V0:
		interior, err := ParseJunctions(t.Value)
		if err != nil {
			return nil, err
		}
		return LegacyLocation{Interior: interior}, nil
	case V1:
		loc, err := ParseMultiLocation(t.Value)
		if err != nil {
			return nil, err
		}
		return LocationV1{MultiLocation: loc}, nil
	case V2:
		loc, err := ParseMultiLocation(t.Value)
		if err != nil {
			return nil, err
		}
		return LocationV2{MultiLocation: loc}, nil
	default:
		return nil, Errorf(KindUnsupportedSchemaRevision, "location", "unsupported location version %s", t.Kind)
	}
}

// ParseLegacyLocation parses a bare V0 MultiLocation (Null | X1..X8).
func ParseLegacyLocation(data json.RawMessage) (LegacyLocation, error) {
	interior, err := ParseJunctions(data)
	if err != nil {
		return LegacyLocation{}, err
	}
	return LegacyLocation{Interior: interior}, nil
}

// ParseMultiLocation parses a V1/V2 {"parents": n, "interior": ...} location.
func ParseMultiLocation(data json.RawMessage) (MultiLocation, error) {
	var body struct {
		Parents  uint8           `json:"parents"`
		Interior json.RawMessage `json:"interior"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return MultiLocation{}, Malformed("multilocation", err)
	}
	if len(body.Interior) == 0 {
		return MultiLocation{}, Malformed("multilocation", fmt.Errorf("missing interior"))
	}
	interior, err := ParseJunctions(body.Interior)
	if err != nil {
		return MultiLocation{}, err
	}
	return MultiLocation{Parents: body.Parents, Interior: interior}, nil
}

// ParseJunctions parses Here/Null or an X1..X8 junction list.
func ParseJunctions(data json.RawMessage) (Junctions, error) {
	t, err := parseTagged("junctions", data)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case "Here", "Null":
		return Junctions{}, nil
	case "X1":
		j, err := ParseJunction(t.Value)
		if err != nil {
			return nil, err
		}
		return Junctions{j}, nil
	}

	arity, ok := junctionArity(t.Kind)
	if !ok {
		return nil, Malformed("junctions", fmt.Errorf("unknown junctions kind %q", t.Kind))
	}
	var items []json.RawMessage
	if err := json.Unmarshal(t.Value, &items); err != nil {
		return nil, Malformed(t.Kind, err)
	}
	if len(items) != arity {
		return nil, Malformed(t.Kind, fmt.Errorf("expected %d junctions, got %d", arity, len(items)))
	}
	out := make(Junctions, 0, arity)
	for _, item := range items {
		j, err := ParseJunction(item)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, nil
}

func junctionArity(kind string) (int, bool) {
	if len(kind) != 2 || kind[0] != 'X' {
		return 0, false
	}
	n := int(kind[1] - '0')
	if n < 2 || n > 8 {
		return 0, false
	}
	return n, true
}

// ParseJunction parses a single junction.
func ParseJunction(data json.RawMessage) (Junction, error) {
	t, err := parseTagged("junction", data)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case "Parachain":
		var id uint32
		if err := json.Unmarshal(t.Value, &id); err != nil {
			return nil, Malformed("Parachain", err)
		}
		return Parachain{ID: id}, nil
	case "AccountId32":
		var body struct {
			Network json.RawMessage `json:"network"`
			ID      string          `json:"id"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, Malformed("AccountId32", err)
		}
		id, err := hexutil.Decode(body.ID)
		if err != nil {
			return nil, Malformed("AccountId32", err)
		}
		return AccountID32{Network: networkKind(body.Network), ID: id}, nil
	case "AccountKey20":
		var body struct {
			Network json.RawMessage `json:"network"`
			Key     string          `json:"key"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, Malformed("AccountKey20", err)
		}
		key, err := hexutil.Decode(body.Key)
		if err != nil {
			return nil, Malformed("AccountKey20", err)
		}
		return AccountKey20{Network: networkKind(body.Network), Key: key}, nil
	case "Parent":
		return Parent{}, nil
	case "AccountIndex64", "PalletInstance", "GeneralIndex", "GeneralKey", "OnlyChild", "Plurality":
		return OtherJunction{Kind: t.Kind}, nil
	default:
		return nil, Malformed("junction", fmt.Errorf("unknown junction kind %q", t.Kind))
	}
}

func networkKind(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	var t tagged
	if err := json.Unmarshal(data, &t); err != nil {
		return ""
	}
	return t.Kind
}

// ParseVersionedAssets parses a {"__kind": "V0"|"V1"|"V2"} asset list.
func ParseVersionedAssets(data json.RawMessage) (VersionedAssetList, error) {
	t, err := parseTagged("assets", data)
	if err != nil {
		return nil, err
	}
	switch Version(t.Kind) {
	case V0:
		return ParseLegacyAssets(t.Value)
	case V1:
		assets, err := parseAssets(t.Value)
		if err != nil {
			return nil, err
		}
		return AssetsV1(assets), nil
	case V2:
		assets, err := parseAssets(t.Value)
		if err != nil {
			return nil, err
		}
		return AssetsV2(assets), nil
	default:
		return nil, Errorf(KindUnsupportedSchemaRevision, "assets", "unsupported assets version %s", t.Kind)
	}
}

// ParseLegacyAssets parses a bare V0 MultiAsset list.
func ParseLegacyAssets(data json.RawMessage) (LegacyAssets, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, Malformed("assets", err)
	}
	out := make(LegacyAssets, 0, len(items))
	for _, item := range items {
		asset, err := parseLegacyAsset(item)
		if err != nil {
			return nil, err
		}
		out = append(out, asset)
	}
	return out, nil
}

func parseLegacyAsset(data json.RawMessage) (LegacyAsset, error) {
	t, err := parseTagged("asset", data)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case "ConcreteFungible":
		var body struct {
			ID     json.RawMessage `json:"id"`
			Amount json.RawMessage `json:"amount"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, Malformed(t.Kind, err)
		}
		id, err := ParseJunctions(body.ID)
		if err != nil {
			return nil, err
		}
		amount, err := ParseAmount(body.Amount)
		if err != nil {
			return nil, Malformed(t.Kind, err)
		}
		return ConcreteFungible{ID: id, Amount: amount}, nil
	case "None", "All", "AllFungible", "AllNonFungible", "AllAbstractFungible", "AllAbstractNonFungible",
		"AllConcreteFungible", "AllConcreteNonFungible", "AbstractFungible", "AbstractNonFungible", "ConcreteNonFungible":
		return OtherLegacyAsset{Kind: t.Kind}, nil
	default:
		return nil, Malformed("asset", fmt.Errorf("unknown asset kind %q", t.Kind))
	}
}

func parseAssets(data json.RawMessage) ([]Asset, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, Malformed("assets", err)
	}
	out := make([]Asset, 0, len(items))
	for _, item := range items {
		asset, err := parseAsset(item)
		if err != nil {
			return nil, err
		}
		out = append(out, asset)
	}
	return out, nil
}

func parseAsset(data json.RawMessage) (Asset, error) {
	var body struct {
		ID          json.RawMessage `json:"id"`
		Fungibility json.RawMessage `json:"fungibility"`
		Fun         json.RawMessage `json:"fun"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return Asset{}, Malformed("asset", err)
	}

	id, err := parseAssetID(body.ID)
	if err != nil {
		return Asset{}, err
	}

	fun := body.Fungibility
	if len(fun) == 0 {
		fun = body.Fun
	}
	fungibility, err := parseFungibility(fun)
	if err != nil {
		return Asset{}, err
	}
	return Asset{ID: id, Fungibility: fungibility}, nil
}

func parseAssetID(data json.RawMessage) (AssetID, error) {
	t, err := parseTagged("asset id", data)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case "Concrete":
		loc, err := ParseMultiLocation(t.Value)
		if err != nil {
			return nil, err
		}
		return Concrete{Location: loc}, nil
	case "Abstract":
		var key string
		if err := json.Unmarshal(t.Value, &key); err != nil {
			return nil, Malformed("Abstract", err)
		}
		b, err := hexutil.Decode(key)
		if err != nil {
			return nil, Malformed("Abstract", err)
		}
		return Abstract{Key: b}, nil
	default:
		return nil, Malformed("asset id", fmt.Errorf("unknown asset id kind %q", t.Kind))
	}
}

func parseFungibility(data json.RawMessage) (Fungibility, error) {
	t, err := parseTagged("fungibility", data)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case "Fungible":
		amount, err := ParseAmount(t.Value)
		if err != nil {
			return nil, Malformed("Fungible", err)
		}
		return Fungible{Amount: amount}, nil
	case "NonFungible":
		instance, err := parseTagged("asset instance", t.Value)
		if err != nil {
			return nil, err
		}
		return NonFungible{Instance: instance.Kind}, nil
	default:
		return nil, Malformed("fungibility", fmt.Errorf("unknown fungibility kind %q", t.Kind))
	}
}

// ParseAmount parses an unsigned integer given as a JSON number, a decimal
// string or a 0x-prefixed hex string. It never truncates.
func ParseAmount(data json.RawMessage) (*big.Int, error) {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil, fmt.Errorf("missing amount")
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}
		raw = strings.TrimSpace(s)
	}

	value := new(big.Int)
	var ok bool
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		_, ok = value.SetString(raw[2:], 16)
	} else {
		_, ok = value.SetString(raw, 10)
	}
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", raw)
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", raw)
	}
	return value, nil
}
