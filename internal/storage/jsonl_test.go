package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"xcmScope/internal/model"
)

func sampleTransfer(id string) model.Transfer {
	return model.Transfer{
		ID:          id,
		BlockNumber: 10,
		Timestamp:   time.UnixMilli(1_636_000_000_000).UTC(),
		From:        "HNZata7iMYWmk5RvZRTiAsSDhV8366zq2YGb3tLH5Upf74F",
		To:          model.Destination{ParaID: 1000, ID: "0x11", Address: "0x11"},
		Assets:      []model.TransferAsset{{Token: "KSM", Amount: big.NewInt(5_000_000_000_000)}},
		Fee:         big.NewInt(1_000_000),
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return lines
}

func TestJsonlStorageAppendsBatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "transfers.jsonl")
	sink := NewJsonlStorage(path)
	ctx := context.Background()

	if err := sink.PutTransferBatch(ctx, model.TransferBatch{Transfers: []model.Transfer{sampleTransfer("a"), sampleTransfer("b")}}); err != nil {
		t.Fatalf("first batch: %v", err)
	}
	if err := sink.PutTransferBatch(ctx, model.TransferBatch{}); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if err := sink.PutTransferBatch(ctx, model.TransferBatch{Transfers: []model.Transfer{sampleTransfer("c")}}); err != nil {
		t.Fatalf("second batch: %v", err)
	}

	lines := readLines(t, path)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	var decoded model.Transfer
	if err := json.Unmarshal([]byte(lines[2]), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != "c" || decoded.Assets[0].Amount.Cmp(big.NewInt(5_000_000_000_000)) != 0 {
		t.Fatalf("decoded mismatch: %+v", decoded)
	}
	if !strings.Contains(lines[0], `"para_id":1000`) {
		t.Fatalf("expected para_id field: %s", lines[0])
	}
	if strings.Contains(lines[0], "extrinsic_hash") {
		t.Fatalf("empty extrinsic hash should be omitted: %s", lines[0])
	}
}

func TestJsonlStorageFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.jsonl")
	sink := NewJsonlStorage(path)

	failures := []model.DecodeFailure{{
		BlockHeight:   7,
		ExtrinsicID:   "0000000007-000001",
		ExtrinsicHash: "0xabc",
		Call:          "XcmPallet.teleport_assets",
		Kind:          "UnsupportedAssetVariant",
		Reason:        "UnsupportedAssetVariant: asset: unsupported asset id variant Parachain",
	}}
	if err := sink.PutFailures(context.Background(), failures); err != nil {
		t.Fatalf("put failures: %v", err)
	}

	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"block_height", "extrinsic_hash", "reason", "kind"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing key %s in %s", key, lines[0])
		}
	}
}

func TestEncodeJSONL(t *testing.T) {
	data, err := EncodeJSONL([]model.Account{{ID: "a"}, {ID: "b"}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(data) != "{\"id\":\"a\"}\n{\"id\":\"b\"}\n" {
		t.Fatalf("unexpected output: %q", data)
	}
}
