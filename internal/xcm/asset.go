package xcm

import "math/big"

// LegacyAsset is a V0 MultiAsset. Only ConcreteFungible carries data the
// indexer extracts; every other V0 variant is kept as OtherLegacyAsset.
type LegacyAsset interface {
	legacyAssetKind() string
}

// ConcreteFungible is a V0 fungible asset identified by location.
type ConcreteFungible struct {
	ID     Junctions
	Amount *big.Int
}

// OtherLegacyAsset is any other V0 asset variant (All, AbstractFungible, ...).
type OtherLegacyAsset struct {
	Kind string
}

func (ConcreteFungible) legacyAssetKind() string   { return "ConcreteFungible" }
func (a OtherLegacyAsset) legacyAssetKind() string { return a.Kind }

// AssetID identifies a V1/V2 asset: Concrete or Abstract.
type AssetID interface {
	assetIDKind() string
}

// Concrete identifies an asset by location.
type Concrete struct {
	Location MultiLocation
}

// Abstract identifies an asset by opaque key.
type Abstract struct {
	Key []byte
}

func (Concrete) assetIDKind() string { return "Concrete" }
func (Abstract) assetIDKind() string { return "Abstract" }

// Fungibility is Fungible or NonFungible.
type Fungibility interface {
	fungibilityKind() string
}

// Fungible carries a quantity.
type Fungible struct {
	Amount *big.Int
}

// NonFungible carries an instance descriptor kind (Undefined, Index, ...).
type NonFungible struct {
	Instance string
}

func (Fungible) fungibilityKind() string    { return "Fungible" }
func (NonFungible) fungibilityKind() string { return "NonFungible" }

// Asset is a V1/V2 MultiAsset.
type Asset struct {
	ID          AssetID
	Fungibility Fungibility
}

// VersionedAssetList is an asset list under one of the supported revisions:
// LegacyAssets, AssetsV1 or AssetsV2.
type VersionedAssetList interface {
	Version() Version
	versionedAssets()
}

// LegacyAssets is a V0 asset list.
type LegacyAssets []LegacyAsset

// AssetsV1 is a V1 asset list.
type AssetsV1 []Asset

// AssetsV2 is a V2 asset list.
type AssetsV2 []Asset

func (LegacyAssets) Version() Version { return V0 }
func (AssetsV1) Version() Version     { return V1 }
func (AssetsV2) Version() Version     { return V2 }

func (LegacyAssets) versionedAssets() {}
func (AssetsV1) versionedAssets()     {}
func (AssetsV2) versionedAssets()     {}
