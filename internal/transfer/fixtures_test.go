package transfer

import (
	"encoding/json"
	"fmt"
	"strings"

	"xcmScope/internal/calls"
	"xcmScope/internal/model"
)

var (
	signerHex      = "0x" + strings.Repeat("22", 32)
	beneficiaryHex = "0x" + strings.Repeat("11", 32)
	key20Hex       = "0x" + strings.Repeat("ab", 20)
)

type fixture struct {
	paraID      uint32
	beneficiary string // V0 junction JSON
	assetID     string // V0 junctions JSON
	amount      string
}

func defaultFixture() fixture {
	return fixture{
		paraID:      1000,
		beneficiary: accountID32(beneficiaryHex),
		assetID:     `{"__kind":"Here"}`,
		amount:      "5000000000000",
	}
}

func accountID32(hex string) string {
	return fmt.Sprintf(`{"__kind":"AccountId32","network":{"__kind":"Any"},"id":%q}`, hex)
}

func accountKey20(hex string) string {
	return fmt.Sprintf(`{"__kind":"AccountKey20","network":{"__kind":"Any"},"key":%q}`, hex)
}

func (f fixture) legacyDest() string {
	return fmt.Sprintf(`{"__kind":"X1","value":{"__kind":"Parachain","value":%d}}`, f.paraID)
}

func (f fixture) legacyBeneficiary() string {
	return fmt.Sprintf(`{"__kind":"X1","value":%s}`, f.beneficiary)
}

func (f fixture) legacyAssets() string {
	return fmt.Sprintf(`[{"__kind":"ConcreteFungible","id":%s,"amount":%q}]`, f.assetID, f.amount)
}

func (f fixture) location(version, interior string) string {
	if version == "V0" {
		return fmt.Sprintf(`{"__kind":"V0","value":%s}`, interior)
	}
	return fmt.Sprintf(`{"__kind":%q,"value":{"parents":0,"interior":%s}}`, version, interior)
}

func (f fixture) assets(version string) string {
	if version == "V0" {
		return fmt.Sprintf(`{"__kind":"V0","value":%s}`, f.legacyAssets())
	}
	return fmt.Sprintf(`{"__kind":%q,"value":[{"id":{"__kind":"Concrete","value":{"parents":0,"interior":{"__kind":"Here"}}},"fungibility":{"__kind":"Fungible","value":%q}}]}`,
		version, f.amount)
}

func (f fixture) args(revision calls.Revision, version string) string {
	switch revision {
	case calls.V9010, calls.V9030:
		return fmt.Sprintf(`{"dest":%s,"beneficiary":%s,"assets":%s,"destWeight":"1000000000"}`,
			f.legacyDest(), f.legacyBeneficiary(), f.legacyAssets())
	}

	dest := f.location(version, f.legacyDest())
	beneficiary := f.location(version, f.legacyBeneficiary())
	assets := f.assets(version)
	switch revision {
	case calls.V9100:
		return fmt.Sprintf(`{"dest":%s,"beneficiary":%s,"assets":%s,"feeAssetItem":0,"destWeight":"1000000000"}`,
			dest, beneficiary, assets)
	case calls.V9111:
		return fmt.Sprintf(`{"dest":%s,"beneficiary":%s,"assets":%s,"feeAssetItem":0}`,
			dest, beneficiary, assets)
	default:
		return fmt.Sprintf(`{"dest":%s,"beneficiary":%s,"assets":%s,"feeAssetItem":0,"weightLimit":{"__kind":"Unlimited"}}`,
			dest, beneficiary, assets)
	}
}

func signedExtrinsic(index uint32, kind calls.Kind, revision calls.Revision, args string) model.Extrinsic {
	return model.Extrinsic{
		Index:     index,
		Hash:      fmt.Sprintf("0x%064x", index+1),
		Fee:       json.RawMessage(`"1000000"`),
		Signature: &model.Signature{Address: json.RawMessage(`{"__kind":"Id","value":"` + signerHex + `"}`)},
		Call: model.Call{
			Name: kind.CallName(),
			Hash: calls.CallHash(kind, revision),
			Args: json.RawMessage(args),
		},
	}
}

func block(height uint64, extrinsics ...model.Extrinsic) model.Block {
	return model.Block{
		Height:     height,
		Timestamp:  1_636_000_000_000 + int64(height)*6_000,
		Extrinsics: extrinsics,
	}
}

// versionsFor lists the addressing revisions a call revision can carry.
func versionsFor(revision calls.Revision) []string {
	if revision == calls.V9010 || revision == calls.V9030 {
		return []string{"V0"}
	}
	return []string{"V0", "V1", "V2"}
}
