package optional

import (
	"encoding/json"
	"testing"
)

type patch struct {
	Notes  Field[string]  `json:"notes"`
	Amount Field[float64] `json:"amount"`
}

func TestFieldDistinguishesAbsentNullAndValue(t *testing.T) {
	var p patch
	if err := json.Unmarshal([]byte(`{"notes":null}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.Notes.Cleared() {
		t.Fatalf("expected notes to be cleared, got %+v", p.Notes)
	}
	if p.Amount.Set {
		t.Fatalf("expected amount to be absent, got %+v", p.Amount)
	}

	p = patch{}
	if err := json.Unmarshal([]byte(`{"notes":"late","amount":12.5}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.Notes.HasValue() || p.Notes.Value != "late" {
		t.Fatalf("unexpected notes: %+v", p.Notes)
	}
	if !p.Amount.HasValue() || p.Amount.Value != 12.5 {
		t.Fatalf("unexpected amount: %+v", p.Amount)
	}
}

func TestFieldRejectsWrongType(t *testing.T) {
	var p patch
	if err := json.Unmarshal([]byte(`{"amount":"abc"}`), &p); err == nil {
		t.Fatal("expected type error")
	}
}
