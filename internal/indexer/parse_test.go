package indexer

import (
	"reflect"
	"testing"
)

func TestParseParaIDs(t *testing.T) {
	got, err := ParseParaIDs([]string{"2023", " 1000 ", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []uint32{2023, 1000}) {
		t.Fatalf("ids mismatch: %v", got)
	}

	for _, input := range []string{"-1", "abc", "4294967296"} {
		if _, err := ParseParaIDs([]string{input}); err == nil {
			t.Fatalf("%s: expected error", input)
		}
	}
}

func TestParseSS58Prefix(t *testing.T) {
	if prefix, err := ParseSS58Prefix(2); err != nil || prefix != 2 {
		t.Fatalf("prefix mismatch: %d %v", prefix, err)
	}
	if _, err := ParseSS58Prefix(16384); err == nil {
		t.Fatalf("expected error for out of range prefix")
	}
}
