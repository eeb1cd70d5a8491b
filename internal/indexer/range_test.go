package indexer

import (
	"reflect"
	"testing"

	"xcmScope/internal/model"
)

func heights(blocks []model.Block) []uint64 {
	out := make([]uint64, 0, len(blocks))
	for _, block := range blocks {
		out = append(out, block.Height)
	}
	return out
}

func TestSpanOf(t *testing.T) {
	got, err := SpanOf([]model.Block{{Height: 100}, {Height: 101}, {Height: 105}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := BlockRange{From: 100, To: 105}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("range mismatch: %+v != %+v", got, want)
	}
}

func TestSpanOfInvalid(t *testing.T) {
	if _, err := SpanOf(nil); err == nil {
		t.Fatalf("expected error for empty batch")
	}
	if _, err := SpanOf([]model.Block{{Height: 10}, {Height: 9}}); err == nil {
		t.Fatalf("expected error for descending heights")
	}
	if _, err := SpanOf([]model.Block{{Height: 10}, {Height: 10}}); err == nil {
		t.Fatalf("expected error for duplicate heights")
	}
}

func TestClip(t *testing.T) {
	blocks := []model.Block{{Height: 1}, {Height: 2}, {Height: 3}, {Height: 4}}

	got, past := Clip(blocks, BlockRange{From: 2, To: 3})
	if !reflect.DeepEqual(heights(got), []uint64{2, 3}) || !past {
		t.Fatalf("bounded clip mismatch: %v past=%v", heights(got), past)
	}

	got, past = Clip(blocks, BlockRange{From: 3})
	if !reflect.DeepEqual(heights(got), []uint64{3, 4}) || past {
		t.Fatalf("unbounded clip mismatch: %v past=%v", heights(got), past)
	}
}
