package account

import (
	"reflect"
	"testing"

	"xcmScope/internal/model"
)

func TestCollectFirstReferenceOrder(t *testing.T) {
	transfers := []model.Transfer{
		{ID: "1", From: "bob"},
		{ID: "2", From: "alice"},
		{ID: "3", From: "bob"},
		{ID: "4", From: ""},
		{ID: "5", From: "carol"},
	}

	got := Collect(transfers)
	want := []model.Account{{ID: "bob"}, {ID: "alice"}, {ID: "carol"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("accounts mismatch: got %+v, want %+v", got, want)
	}
}

func TestRegistryReference(t *testing.T) {
	registry := NewRegistry()
	first := registry.Reference("alice")
	second := registry.Reference("alice")
	if first != second || registry.Len() != 1 {
		t.Fatalf("expected a single account, got %d", registry.Len())
	}

	accounts := registry.Accounts()
	accounts[0].ID = "mutated"
	if registry.Accounts()[0].ID != "alice" {
		t.Fatalf("Accounts must return a copy")
	}
}

func TestCollectEmpty(t *testing.T) {
	if got := Collect(nil); len(got) != 0 {
		t.Fatalf("expected no accounts, got %+v", got)
	}
}
