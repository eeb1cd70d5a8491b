package transfer

import (
	"context"
	"encoding/json"
	"math/big"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"xcmScope/internal/calls"
	"xcmScope/internal/model"
	"xcmScope/internal/ss58"
	"xcmScope/internal/xcm"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	codec, err := ss58.NewCodec(ss58.KusamaPrefix, 0)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return NewExtractor(codec, Options{
		NativeToken:     "KSM",
		RawAddressParas: []uint32{2023},
		Logger:          zap.NewNop(),
	})
}

func mustSS58(t *testing.T, hex string) string {
	t.Helper()
	addr, err := ss58.Encode(hexutil.MustDecode(hex), ss58.KusamaPrefix)
	if err != nil {
		t.Fatalf("encode %s: %v", hex, err)
	}
	return addr
}

func TestTeleportEarliestRevision(t *testing.T) {
	extractor := newTestExtractor(t)
	ext := signedExtrinsic(3, calls.KindTeleport, calls.V9010, defaultFixture().args(calls.V9010, "V0"))
	b := block(9_000_000, ext)

	result := extractor.Extract([]model.Block{b})
	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
	if len(result.Transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %d", len(result.Transfers))
	}

	want := model.Transfer{
		ID:            "0009000000-000003",
		BlockNumber:   9_000_000,
		Timestamp:     time.UnixMilli(b.Timestamp).UTC(),
		ExtrinsicHash: ext.Hash,
		From:          mustSS58(t, signerHex),
		To: model.Destination{
			ParaID:  1000,
			ID:      beneficiaryHex,
			Address: mustSS58(t, beneficiaryHex),
		},
		Assets: []model.TransferAsset{{Token: "KSM", Amount: big.NewInt(5_000_000_000_000)}},
		Fee:    big.NewInt(1_000_000),
	}
	got := result.Transfers[0]
	if got.ID != want.ID || got.BlockNumber != want.BlockNumber || !got.Timestamp.Equal(want.Timestamp) {
		t.Fatalf("header mismatch: got %+v", got)
	}
	if got.From != want.From || got.To != want.To || got.ExtrinsicHash != want.ExtrinsicHash {
		t.Fatalf("parties mismatch: got %+v, want %+v", got, want)
	}
	if len(got.Assets) != 1 || got.Assets[0].Token != "KSM" || got.Assets[0].Amount.Cmp(want.Assets[0].Amount) != 0 {
		t.Fatalf("assets mismatch: %+v", got.Assets)
	}
	if got.Fee.Cmp(want.Fee) != 0 {
		t.Fatalf("fee mismatch: %s", got.Fee)
	}
}

func TestTeleportRejectsParachainAssetID(t *testing.T) {
	extractor := newTestExtractor(t)
	f := defaultFixture()
	f.assetID = `{"__kind":"X1","value":{"__kind":"Parachain","value":2000}}`
	ext := signedExtrinsic(0, calls.KindTeleport, calls.V9010, f.args(calls.V9010, "V0"))

	result := extractor.Extract([]model.Block{block(1, ext)})
	if len(result.Transfers) != 0 {
		t.Fatalf("expected no transfers, got %+v", result.Transfers)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failures))
	}
	failure := result.Failures[0]
	if failure.Kind != string(xcm.KindUnsupportedAssetVariant) {
		t.Fatalf("failure kind mismatch: %+v", failure)
	}
	if failure.ExtrinsicHash != ext.Hash || failure.BlockHeight != 1 {
		t.Fatalf("failure tags mismatch: %+v", failure)
	}
}

func TestRoundTripAllRevisions(t *testing.T) {
	extractor := newTestExtractor(t)

	for _, kind := range []calls.Kind{calls.KindTeleport, calls.KindLimitedTeleport, calls.KindReserveTransfer, calls.KindLimitedReserveTransfer} {
		for _, revision := range calls.Revisions(kind) {
			for _, version := range versionsFor(revision) {
				f := defaultFixture()
				f.paraID = 2001
				f.amount = "123456789012345678901234567890"
				ext := signedExtrinsic(1, kind, revision, f.args(revision, version))

				transfer, ok, err := extractor.Decode(block(10, ext), ext)
				if err != nil || !ok {
					t.Fatalf("%s/%s/%s: decode: ok=%v err=%v", kind, revision, version, ok, err)
				}
				if transfer.To.ParaID != 2001 || transfer.To.ID != beneficiaryHex {
					t.Fatalf("%s/%s/%s: destination mismatch: %+v", kind, revision, version, transfer.To)
				}
				if len(transfer.Assets) != 1 || transfer.Assets[0].Amount.String() != f.amount {
					t.Fatalf("%s/%s/%s: amount mismatch: %+v", kind, revision, version, transfer.Assets)
				}
			}
		}
	}
}

func TestMultiHopRejectedEveryVersion(t *testing.T) {
	extractor := newTestExtractor(t)
	f := defaultFixture()
	f.beneficiary = accountID32(beneficiaryHex)

	for _, version := range []string{"V0", "V1", "V2"} {
		x2 := `{"__kind":"X2","value":[{"__kind":"Parachain","value":1000},` + accountID32(beneficiaryHex) + `]}`
		args := `{"dest":` + f.location(version, f.legacyDest()) +
			`,"beneficiary":` + f.location(version, x2) +
			`,"assets":` + f.assets(version) + `,"feeAssetItem":0}`
		ext := signedExtrinsic(0, calls.KindReserveTransfer, calls.V9111, args)

		_, ok, err := extractor.Decode(block(1, ext), ext)
		if ok || !xcm.IsKind(err, xcm.KindUnsupportedJunction) {
			t.Fatalf("%s: expected UnsupportedJunction, got ok=%v err=%v", version, ok, err)
		}
	}
}

func TestBatchIsolation(t *testing.T) {
	extractor := newTestExtractor(t)
	good := defaultFixture().args(calls.V9111, "V1")
	bad := defaultFixture()
	bad.assetID = `{"__kind":"X1","value":{"__kind":"Parachain","value":2000}}`

	b := block(42,
		signedExtrinsic(0, calls.KindTeleport, calls.V9111, good),
		signedExtrinsic(1, calls.KindTeleport, calls.V9111, bad.args(calls.V9111, "V0")),
		signedExtrinsic(2, calls.KindTeleport, calls.V9111, good),
	)

	result := extractor.Extract([]model.Block{b})
	if len(result.Transfers) != 2 || len(result.Failures) != 1 {
		t.Fatalf("expected 2 transfers and 1 failure, got %d and %d", len(result.Transfers), len(result.Failures))
	}
	if result.Transfers[0].ID != "0000000042-000000" || result.Transfers[1].ID != "0000000042-000002" {
		t.Fatalf("transfer order mismatch: %s, %s", result.Transfers[0].ID, result.Transfers[1].ID)
	}
	if result.Failures[0].ExtrinsicID != "0000000042-000001" {
		t.Fatalf("failure mismatch: %+v", result.Failures[0])
	}
}

func TestSkipSemantics(t *testing.T) {
	extractor := newTestExtractor(t)
	args := defaultFixture().args(calls.V9122, "V2")

	unsigned := signedExtrinsic(0, calls.KindLimitedTeleport, calls.V9122, args)
	unsigned.Signature = nil
	nullSigner := signedExtrinsic(1, calls.KindLimitedTeleport, calls.V9122, args)
	nullSigner.Signature = &model.Signature{Address: json.RawMessage(`null`)}
	other := signedExtrinsic(2, calls.KindLimitedTeleport, calls.V9122, args)
	other.Call.Name = "Balances.transfer"

	result := extractor.Extract([]model.Block{block(5, unsigned, nullSigner, other)})
	if len(result.Transfers) != 0 || len(result.Failures) != 0 {
		t.Fatalf("expected nothing, got %+v", result)
	}
	if result.Skipped != 3 {
		t.Fatalf("expected 3 skipped, got %d", result.Skipped)
	}
}

func TestDecodeIdempotent(t *testing.T) {
	extractor := newTestExtractor(t)
	ext := signedExtrinsic(7, calls.KindLimitedReserveTransfer, calls.V9122, defaultFixture().args(calls.V9122, "V1"))
	b := block(100, ext)

	first, ok, err := extractor.Decode(b, ext)
	if err != nil || !ok {
		t.Fatalf("first decode: ok=%v err=%v", ok, err)
	}
	second, ok, err := extractor.Decode(b, ext)
	if err != nil || !ok {
		t.Fatalf("second decode: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("decode not idempotent:\n%+v\n%+v", first, second)
	}
	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	if string(firstJSON) != string(secondJSON) {
		t.Fatalf("encoded transfers differ:\n%s\n%s", firstJSON, secondJSON)
	}
}

func TestBeneficiaryRendering(t *testing.T) {
	extractor := newTestExtractor(t)

	raw := defaultFixture()
	raw.paraID = 2023
	ext := signedExtrinsic(0, calls.KindTeleport, calls.V9111, raw.args(calls.V9111, "V1"))
	transfer, _, err := extractor.Decode(block(1, ext), ext)
	if err != nil {
		t.Fatalf("raw para: %v", err)
	}
	if transfer.To.Address != beneficiaryHex {
		t.Fatalf("raw para address mismatch: %s", transfer.To.Address)
	}

	evm := defaultFixture()
	evm.paraID = 2004
	evm.beneficiary = accountKey20(key20Hex)
	ext = signedExtrinsic(0, calls.KindTeleport, calls.V9111, evm.args(calls.V9111, "V2"))
	transfer, _, err = extractor.Decode(block(1, ext), ext)
	if err != nil {
		t.Fatalf("key20: %v", err)
	}
	want := common.BytesToAddress(hexutil.MustDecode(key20Hex)).Hex()
	if transfer.To.Address != want || transfer.To.ID != key20Hex {
		t.Fatalf("key20 rendering mismatch: %+v", transfer.To)
	}
}

func TestSignerVariants(t *testing.T) {
	extractor := newTestExtractor(t)
	args := defaultFixture().args(calls.V9100, "V1")
	wantFrom := mustSS58(t, signerHex)

	for _, addr := range []string{
		`"` + signerHex + `"`,
		`{"__kind":"Id","value":"` + signerHex + `"}`,
		`{"__kind":"AccountId","value":"` + signerHex + `"}`,
	} {
		ext := signedExtrinsic(0, calls.KindTeleport, calls.V9100, args)
		ext.Signature.Address = json.RawMessage(addr)
		transfer, ok, err := extractor.Decode(block(1, ext), ext)
		if err != nil || !ok {
			t.Fatalf("%s: decode: ok=%v err=%v", addr, ok, err)
		}
		if transfer.From != wantFrom {
			t.Fatalf("%s: from mismatch: %s", addr, transfer.From)
		}
	}

	ext := signedExtrinsic(0, calls.KindTeleport, calls.V9100, args)
	ext.Signature.Address = json.RawMessage(`{"__kind":"Index","value":7}`)
	if _, _, err := extractor.Decode(block(1, ext), ext); !xcm.IsKind(err, xcm.KindUnsupportedSigner) {
		t.Fatalf("expected UnsupportedSigner, got %v", err)
	}
}

func TestFeeDefaultsToZero(t *testing.T) {
	extractor := newTestExtractor(t)
	ext := signedExtrinsic(0, calls.KindReserveTransfer, calls.V9030, defaultFixture().args(calls.V9030, "V0"))
	ext.Fee = nil

	transfer, ok, err := extractor.Decode(block(1, ext), ext)
	if err != nil || !ok {
		t.Fatalf("decode: ok=%v err=%v", ok, err)
	}
	if transfer.Fee == nil || transfer.Fee.Sign() != 0 {
		t.Fatalf("expected zero fee, got %v", transfer.Fee)
	}
}

func TestUnknownRevisionFailure(t *testing.T) {
	extractor := newTestExtractor(t)
	ext := signedExtrinsic(0, calls.KindTeleport, calls.V9111, defaultFixture().args(calls.V9111, "V1"))
	ext.Call.Hash = strings.Repeat("0", 64)

	result := extractor.Extract([]model.Block{block(1, ext)})
	if len(result.Failures) != 1 || result.Failures[0].Kind != string(xcm.KindUnsupportedSchemaRevision) {
		t.Fatalf("expected UnsupportedSchemaRevision failure, got %+v", result.Failures)
	}
	if !strings.Contains(result.Failures[0].Reason, string(calls.KindTeleport)) {
		t.Fatalf("reason should name the call kind: %s", result.Failures[0].Reason)
	}
}

func TestTransfersLazyAndOrdered(t *testing.T) {
	extractor := newTestExtractor(t)
	args := defaultFixture().args(calls.V9111, "V2")
	blocks := []model.Block{
		block(1, signedExtrinsic(0, calls.KindTeleport, calls.V9111, args), signedExtrinsic(1, calls.KindTeleport, calls.V9111, args)),
		block(2, signedExtrinsic(0, calls.KindTeleport, calls.V9111, args)),
	}

	var ids []string
	for transfer := range extractor.Transfers(blocks) {
		ids = append(ids, transfer.ID)
	}
	want := []string{"0000000001-000000", "0000000001-000001", "0000000002-000000"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("order mismatch: got %v, want %v", ids, want)
	}

	count := 0
	for range extractor.Transfers(blocks) {
		count++
		break
	}
	if count != 1 {
		t.Fatalf("expected early stop after 1 transfer, got %d", count)
	}
}

func TestExtractConcurrentMatchesSequential(t *testing.T) {
	extractor := newTestExtractor(t)
	good := defaultFixture().args(calls.V9111, "V1")
	bad := defaultFixture()
	bad.assetID = `{"__kind":"X1","value":{"__kind":"Parachain","value":2000}}`

	var blocks []model.Block
	for h := uint64(1); h <= 10; h++ {
		blocks = append(blocks, block(h,
			signedExtrinsic(0, calls.KindTeleport, calls.V9111, good),
			signedExtrinsic(1, calls.KindTeleport, calls.V9111, bad.args(calls.V9111, "V0")),
		))
	}

	want := extractor.Extract(blocks)
	got, err := extractor.ExtractConcurrent(context.Background(), blocks, 3)
	if err != nil {
		t.Fatalf("extract concurrent: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("concurrent result differs from sequential")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := extractor.ExtractConcurrent(ctx, blocks, 3); err == nil {
		t.Fatalf("expected context error")
	}
}
