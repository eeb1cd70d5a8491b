package calls

import "strings"

// Kind is one of the XcmPallet transfer calls.
type Kind string

const (
	KindTeleport               Kind = "teleport_assets"
	KindLimitedTeleport        Kind = "limited_teleport_assets"
	KindReserveTransfer        Kind = "reserve_transfer_assets"
	KindLimitedReserveTransfer Kind = "limited_reserve_transfer_assets"
)

const palletName = "XcmPallet"

// CallName returns the fully qualified call name, e.g. XcmPallet.teleport_assets.
func (k Kind) CallName() string {
	return palletName + "." + string(k)
}

// KindOf maps a call name to its Kind. Unknown calls report false.
func KindOf(name string) (Kind, bool) {
	pallet, call, ok := strings.Cut(name, ".")
	if !ok || pallet != palletName {
		return "", false
	}
	switch kind := Kind(call); kind {
	case KindTeleport, KindLimitedTeleport, KindReserveTransfer, KindLimitedReserveTransfer:
		return kind, true
	default:
		return "", false
	}
}

// Revision is a runtime revision whose argument layout the normalizer knows.
type Revision string

const (
	V9010 Revision = "v9010"
	V9030 Revision = "v9030"
	V9100 Revision = "v9100"
	V9111 Revision = "v9111"
	V9122 Revision = "v9122"
)

// Call-type hashes identifying each argument layout.
const (
	hashLegacy  = "3c069703413ed53ed30061e5da3bc55ab8fa9032fc014ba18afc7afe32930ebd"
	hashV9100   = "c4558a18f0400069c14aaa3575bad0bb84b99ac94f206e8ab02890276f174ff4"
	hashV9111   = "123b8170fa49ede01f38623e457f4e4d417c90cff5b93ced45a9eb8fe8e6ca2e"
	hashLimited = "3c203a3f95b9fe53b8c376802c4fe60fa6077815af7432dcd2a3e458169a5d2a"
)

type revisionCheck struct {
	Revision Revision
	Hash     string
}

// revisionChecks lists, per call, the revisions in the order they must be
// tried. The order follows the chain's migration path; the first match wins.
var revisionChecks = map[Kind][]revisionCheck{
	KindTeleport: {
		{Revision: V9010, Hash: hashLegacy},
		{Revision: V9100, Hash: hashV9100},
		{Revision: V9111, Hash: hashV9111},
	},
	KindLimitedTeleport: {
		{Revision: V9122, Hash: hashLimited},
	},
	KindReserveTransfer: {
		{Revision: V9030, Hash: hashLegacy},
		{Revision: V9100, Hash: hashV9100},
		{Revision: V9111, Hash: hashV9111},
	},
	KindLimitedReserveTransfer: {
		{Revision: V9122, Hash: hashLimited},
	},
}

// MatchRevision returns the first revision of kind whose call hash equals hash.
func MatchRevision(kind Kind, hash string) (Revision, bool) {
	hash = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(hash)), "0x")
	for _, check := range revisionChecks[kind] {
		if check.Hash == hash {
			return check.Revision, true
		}
	}
	return "", false
}

// CallHash returns the call-type hash of kind at revision, or "" when the
// call does not exist at that revision.
func CallHash(kind Kind, revision Revision) string {
	for _, check := range revisionChecks[kind] {
		if check.Revision == revision {
			return check.Hash
		}
	}
	return ""
}

// Revisions returns the revisions known for kind, in precedence order.
func Revisions(kind Kind) []Revision {
	checks := revisionChecks[kind]
	out := make([]Revision, 0, len(checks))
	for _, check := range checks {
		out = append(out, check.Revision)
	}
	return out
}
