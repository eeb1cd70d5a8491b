package xcm

import (
	"math/big"
)

// Role selects which junction kinds a location may resolve to.
type Role int

const (
	RoleDestination Role = iota
	RoleBeneficiary
)

func (r Role) String() string {
	switch r {
	case RoleDestination:
		return "destination"
	case RoleBeneficiary:
		return "beneficiary"
	default:
		return "unknown"
	}
}

// AccountScheme names the junction a beneficiary identity came from.
type AccountScheme string

const (
	SchemeAccountID32  AccountScheme = "AccountId32"
	SchemeAccountKey20 AccountScheme = "AccountKey20"
)

// AddressExtract is the canonical result of decoding a location.
// Destinations fill ParaID; beneficiaries fill Scheme and Account.
type AddressExtract struct {
	ParaID  uint32
	Scheme  AccountScheme
	Account []byte
}

// DecodeLocation reduces any supported location revision to a single
// junction and extracts it according to role. Every revision must resolve to
// exactly one junction (X1); anything else is UnsupportedJunction.
func DecodeLocation(v VersionedLocation, role Role) (AddressExtract, error) {
	interior, err := interiorOf(v, role)
	if err != nil {
		return AddressExtract{}, err
	}
	if len(interior) != 1 {
		return AddressExtract{}, Errorf(KindUnsupportedJunction, role.String(),
			"unsupported %s location variant: %s", role, interior.Kind())
	}

	switch role {
	case RoleDestination:
		return decodeParachain(interior[0])
	case RoleBeneficiary:
		return decodeAccount(interior[0])
	default:
		return AddressExtract{}, Errorf(KindUnsupportedJunction, role.String(), "unknown location role")
	}
}

// DecodeDestination returns the parachain id of a destination location.
func DecodeDestination(v VersionedLocation) (uint32, error) {
	extract, err := DecodeLocation(v, RoleDestination)
	if err != nil {
		return 0, err
	}
	return extract.ParaID, nil
}

// DecodeBeneficiary returns the raw account identity of a beneficiary location.
func DecodeBeneficiary(v VersionedLocation) (AddressExtract, error) {
	return DecodeLocation(v, RoleBeneficiary)
}

func interiorOf(v VersionedLocation, role Role) (Junctions, error) {
	switch loc := v.(type) {
	case LegacyLocation:
		return loc.Interior, nil
	case LocationV1:
		return loc.Interior, nil
	case LocationV2:
		return loc.Interior, nil
	case nil:
		return nil, Errorf(KindMalformedPayload, role.String(), "missing location")
	default:
		return nil, Errorf(KindUnsupportedSchemaRevision, role.String(), "unsupported location version %s", v.Version())
	}
}

func decodeParachain(j Junction) (AddressExtract, error) {
	switch junction := j.(type) {
	case Parachain:
		return AddressExtract{ParaID: junction.ID}, nil
	default:
		return AddressExtract{}, Errorf(KindUnsupportedJunction, "destination",
			"unsupported parachain id variant: %s", JunctionKind(j))
	}
}

func decodeAccount(j Junction) (AddressExtract, error) {
	switch junction := j.(type) {
	case AccountID32:
		if len(junction.ID) != 32 {
			return AddressExtract{}, Errorf(KindUnsupportedJunction, "beneficiary",
				"AccountId32 has %d bytes", len(junction.ID))
		}
		return AddressExtract{Scheme: SchemeAccountID32, Account: cloneBytes(junction.ID)}, nil
	case AccountKey20:
		if len(junction.Key) != 20 {
			return AddressExtract{}, Errorf(KindUnsupportedJunction, "beneficiary",
				"AccountKey20 has %d bytes", len(junction.Key))
		}
		return AddressExtract{Scheme: SchemeAccountKey20, Account: cloneBytes(junction.Key)}, nil
	default:
		return AddressExtract{}, Errorf(KindUnsupportedJunction, "beneficiary",
			"unsupported account id variant: %s", JunctionKind(j))
	}
}

// DecodeAssets returns the fungible amounts of an asset list in input order.
// Only the native currency shape is accepted:
//   - V0: ConcreteFungible with id Null/Here or X1(Parent)
//   - V1/V2: Concrete id with interior Here and Fungible fungibility
//
// An empty list yields an empty slice.
func DecodeAssets(v VersionedAssetList) ([]*big.Int, error) {
	switch list := v.(type) {
	case LegacyAssets:
		out := make([]*big.Int, 0, len(list))
		for _, asset := range list {
			amount, err := decodeLegacyAsset(asset)
			if err != nil {
				return nil, err
			}
			out = append(out, amount)
		}
		return out, nil
	case AssetsV1:
		return decodeAssetList(list)
	case AssetsV2:
		return decodeAssetList(list)
	case nil:
		return nil, Errorf(KindMalformedPayload, "assets", "missing assets")
	default:
		return nil, Errorf(KindUnsupportedSchemaRevision, "assets", "unsupported assets version %s", v.Version())
	}
}

func decodeLegacyAsset(asset LegacyAsset) (*big.Int, error) {
	fungible, ok := asset.(ConcreteFungible)
	if !ok {
		kind := "<nil>"
		if asset != nil {
			kind = asset.legacyAssetKind()
		}
		return nil, Errorf(KindUnsupportedAssetVariant, "asset", "unsupported asset variant %s", kind)
	}

	// Null and Here are both accepted as the local location.
	switch len(fungible.ID) {
	case 0:
	case 1:
		if _, ok := fungible.ID[0].(Parent); !ok {
			return nil, Errorf(KindUnsupportedAssetVariant, "asset",
				"unsupported asset id variant %s", JunctionKind(fungible.ID[0]))
		}
	default:
		return nil, Errorf(KindUnsupportedAssetVariant, "asset",
			"unsupported asset id variant %s", fungible.ID.Kind())
	}
	return amountOf(fungible.Amount)
}

func decodeAssetList(list []Asset) ([]*big.Int, error) {
	out := make([]*big.Int, 0, len(list))
	for _, asset := range list {
		concrete, ok := asset.ID.(Concrete)
		if !ok {
			return nil, Errorf(KindUnsupportedAssetVariant, "asset",
				"unsupported asset variant %s", assetIDKind(asset.ID))
		}
		if len(concrete.Location.Interior) != 0 {
			return nil, Errorf(KindUnsupportedAssetVariant, "asset",
				"unsupported asset id variant %s", concrete.Location.Interior.Kind())
		}
		fungible, ok := asset.Fungibility.(Fungible)
		if !ok {
			return nil, Errorf(KindUnsupportedAssetVariant, "asset",
				"unsupported asset fungibility variant %s", fungibilityKind(asset.Fungibility))
		}
		amount, err := amountOf(fungible.Amount)
		if err != nil {
			return nil, err
		}
		out = append(out, amount)
	}
	return out, nil
}

func amountOf(amount *big.Int) (*big.Int, error) {
	if amount == nil {
		return nil, Errorf(KindMalformedPayload, "asset", "missing amount")
	}
	return new(big.Int).Set(amount), nil
}

func assetIDKind(id AssetID) string {
	if id == nil {
		return "<nil>"
	}
	return id.assetIDKind()
}

func fungibilityKind(f Fungibility) string {
	if f == nil {
		return "<nil>"
	}
	return f.fungibilityKind()
}

func cloneBytes(b []byte) []byte {
	return append([]byte(nil), b...)
}
