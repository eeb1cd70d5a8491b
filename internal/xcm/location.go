package xcm

import "fmt"

// Version tags a versioned XCM structure. V0 is the legacy format.
type Version string

const (
	V0 Version = "V0"
	V1 Version = "V1"
	V2 Version = "V2"
)

// Junction is one hop of a location. The set of implementations is closed.
type Junction interface {
	junctionKind() string
}

// Parachain identifies a parachain by id.
type Parachain struct {
	ID uint32
}

// AccountID32 is a 32-byte account identity.
type AccountID32 struct {
	Network string
	ID      []byte
}

// AccountKey20 is a 20-byte account identity (EVM style).
type AccountKey20 struct {
	Network string
	Key     []byte
}

// Parent is the V0 junction pointing one level up.
type Parent struct{}

// OtherJunction is a well-formed junction this indexer does not extract from.
type OtherJunction struct {
	Kind string
}

func (Parachain) junctionKind() string       { return "Parachain" }
func (AccountID32) junctionKind() string     { return "AccountId32" }
func (AccountKey20) junctionKind() string    { return "AccountKey20" }
func (Parent) junctionKind() string          { return "Parent" }
func (j OtherJunction) junctionKind() string { return j.Kind }

// JunctionKind returns the wire name of a junction.
func JunctionKind(j Junction) string {
	if j == nil {
		return "<nil>"
	}
	return j.junctionKind()
}

// Junctions is a location interior. An empty slice is Here (Null in V0).
type Junctions []Junction

// Kind returns the wire name of the interior shape.
func (j Junctions) Kind() string {
	if len(j) == 0 {
		return "Here"
	}
	return fmt.Sprintf("X%d", len(j))
}

// MultiLocation is the V1/V2 location: parent count plus interior.
type MultiLocation struct {
	Parents  uint8
	Interior Junctions
}

// VersionedLocation is a location under one of the supported addressing
// revisions: LegacyLocation, LocationV1 or LocationV2.
type VersionedLocation interface {
	Version() Version
	versionedLocation()
}

// LegacyLocation is a V0 location, which is the bare junction list.
type LegacyLocation struct {
	Interior Junctions
}

// LocationV1 is a V1 MultiLocation.
type LocationV1 struct {
	MultiLocation
}

// LocationV2 is a V2 MultiLocation.
type LocationV2 struct {
	MultiLocation
}

func (LegacyLocation) Version() Version { return V0 }
func (LocationV1) Version() Version     { return V1 }
func (LocationV2) Version() Version     { return V2 }

func (LegacyLocation) versionedLocation() {}
func (LocationV1) versionedLocation()     {}
func (LocationV2) versionedLocation()     {}
