package calls

import (
	"encoding/json"
	"fmt"
	"math/big"

	"xcmScope/internal/xcm"
)

// WeightLimit is the V2 weight limit of the limited_* calls. A nil Limit
// means Unlimited.
type WeightLimit struct {
	Limit *big.Int
}

// Unlimited reports whether no weight limit was set.
func (w WeightLimit) Unlimited() bool {
	return w.Limit == nil
}

// Args is the argument record of one call at one revision, reduced to the
// fields every revision shares. Legacy revisions have bare V0 values wrapped
// as xcm.LegacyLocation and xcm.LegacyAssets.
type Args struct {
	Dest         xcm.VersionedLocation
	Beneficiary  xcm.VersionedLocation
	Assets       xcm.VersionedAssetList
	FeeAssetItem *uint32
	DestWeight   *big.Int
	WeightLimit  *WeightLimit
}

// rawArgs is the wire shape shared by every revision; which fields must be
// present depends on the revision.
type rawArgs struct {
	Dest         json.RawMessage `json:"dest"`
	Beneficiary  json.RawMessage `json:"beneficiary"`
	Assets       json.RawMessage `json:"assets"`
	FeeAssetItem json.RawMessage `json:"feeAssetItem"`
	DestWeight   json.RawMessage `json:"destWeight"`
	WeightLimit  json.RawMessage `json:"weightLimit"`
}

// ParseArgs decodes the argument payload of a call at the given revision.
func ParseArgs(revision Revision, data json.RawMessage) (Args, error) {
	if len(data) == 0 {
		return Args{}, xcm.Malformed("args", fmt.Errorf("missing args"))
	}
	var raw rawArgs
	if err := json.Unmarshal(data, &raw); err != nil {
		return Args{}, xcm.Malformed("args", err)
	}

	switch revision {
	case V9010, V9030:
		return parseLegacyArgs(raw)
	case V9100:
		args, err := parseVersionedArgs(raw)
		if err != nil {
			return Args{}, err
		}
		if args.DestWeight, err = requireAmount("destWeight", raw.DestWeight); err != nil {
			return Args{}, err
		}
		return args, nil
	case V9111:
		return parseVersionedArgs(raw)
	case V9122:
		args, err := parseVersionedArgs(raw)
		if err != nil {
			return Args{}, err
		}
		limit, err := parseWeightLimit(raw.WeightLimit)
		if err != nil {
			return Args{}, err
		}
		args.WeightLimit = &limit
		return args, nil
	default:
		return Args{}, xcm.Errorf(xcm.KindUnsupportedSchemaRevision, "args", "unknown revision %q", revision)
	}
}

func parseLegacyArgs(raw rawArgs) (Args, error) {
	dest, err := xcm.ParseLegacyLocation(raw.Dest)
	if err != nil {
		return Args{}, err
	}
	beneficiary, err := xcm.ParseLegacyLocation(raw.Beneficiary)
	if err != nil {
		return Args{}, err
	}
	assets, err := xcm.ParseLegacyAssets(raw.Assets)
	if err != nil {
		return Args{}, err
	}
	weight, err := requireAmount("destWeight", raw.DestWeight)
	if err != nil {
		return Args{}, err
	}
	return Args{
		Dest:        dest,
		Beneficiary: beneficiary,
		Assets:      assets,
		DestWeight:  weight,
	}, nil
}

func parseVersionedArgs(raw rawArgs) (Args, error) {
	dest, err := xcm.ParseVersionedLocation(raw.Dest)
	if err != nil {
		return Args{}, err
	}
	beneficiary, err := xcm.ParseVersionedLocation(raw.Beneficiary)
	if err != nil {
		return Args{}, err
	}
	assets, err := xcm.ParseVersionedAssets(raw.Assets)
	if err != nil {
		return Args{}, err
	}
	if len(raw.FeeAssetItem) == 0 {
		return Args{}, xcm.Malformed("feeAssetItem", fmt.Errorf("missing feeAssetItem"))
	}
	var feeItem uint32
	if err := json.Unmarshal(raw.FeeAssetItem, &feeItem); err != nil {
		return Args{}, xcm.Malformed("feeAssetItem", err)
	}
	return Args{
		Dest:         dest,
		Beneficiary:  beneficiary,
		Assets:       assets,
		FeeAssetItem: &feeItem,
	}, nil
}

func requireAmount(field string, data json.RawMessage) (*big.Int, error) {
	amount, err := xcm.ParseAmount(data)
	if err != nil {
		return nil, xcm.Malformed(field, err)
	}
	return amount, nil
}

func parseWeightLimit(data json.RawMessage) (WeightLimit, error) {
	var t struct {
		Kind  string          `json:"__kind"`
		Value json.RawMessage `json:"value"`
	}
	if len(data) == 0 {
		return WeightLimit{}, xcm.Malformed("weightLimit", fmt.Errorf("missing weightLimit"))
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return WeightLimit{}, xcm.Malformed("weightLimit", err)
	}
	switch t.Kind {
	case "Unlimited":
		return WeightLimit{}, nil
	case "Limited":
		limit, err := requireAmount("weightLimit", t.Value)
		if err != nil {
			return WeightLimit{}, err
		}
		return WeightLimit{Limit: limit}, nil
	default:
		return WeightLimit{}, xcm.Malformed("weightLimit", fmt.Errorf("unknown weight limit kind %q", t.Kind))
	}
}
