package calls

import (
	"xcmScope/internal/model"
	"xcmScope/internal/xcm"
)

// Envelope is a transfer call reduced to the three values the decoder needs,
// independent of the call kind and revision it came from.
type Envelope struct {
	Kind        Kind
	Revision    Revision
	Dest        xcm.VersionedLocation
	Beneficiary xcm.VersionedLocation
	Assets      xcm.VersionedAssetList
}

// AddressingVersion is the version tag of the destination location.
func (e Envelope) AddressingVersion() xcm.Version {
	if e.Dest == nil {
		return ""
	}
	return e.Dest.Version()
}

// IsTransfer reports whether name is one of the supported transfer calls.
func IsTransfer(name string) bool {
	_, ok := KindOf(name)
	return ok
}

// Normalize selects the argument layout of call by its call-type hash and
// returns the normalized envelope. Revisions are tried in precedence order;
// a hash matching none of them is UnsupportedSchemaRevision.
func Normalize(call model.Call) (Envelope, error) {
	kind, ok := KindOf(call.Name)
	if !ok {
		return Envelope{}, xcm.Errorf(xcm.KindUnsupportedSchemaRevision, call.Name, "not a transfer call")
	}
	revision, ok := MatchRevision(kind, call.Hash)
	if !ok {
		return Envelope{}, xcm.Errorf(xcm.KindUnsupportedSchemaRevision, kind.CallName(),
			"unknown version of %s (call hash %q)", kind, call.Hash)
	}
	args, err := ParseArgs(revision, call.Args)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		Kind:        kind,
		Revision:    revision,
		Dest:        args.Dest,
		Beneficiary: args.Beneficiary,
		Assets:      args.Assets,
	}, nil
}
