package uuid

import (
	"testing"

	googleuuid "github.com/google/uuid"
)

func TestNewIsVersion7(t *testing.T) {
	id := New()
	parsed, err := googleuuid.Parse(id)
	if err != nil {
		t.Fatalf("New returned invalid uuid %q: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected version 7, got %d", parsed.Version())
	}
	if New() == id {
		t.Error("expected distinct ids")
	}
}

func TestNewIsTimeOrdered(t *testing.T) {
	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		if next <= prev {
			t.Fatalf("ids not ordered: %s then %s", prev, next)
		}
		prev = next
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "0190F4A2-6C1E-7B3A-9D2E-5F8A1C3B7E21", want: "0190f4a2-6c1e-7b3a-9d2e-5f8a1c3b7e21"},
		{in: "0190f4a26c1e7b3a9d2e5f8a1c3b7e21", want: "0190f4a2-6c1e-7b3a-9d2e-5f8a1c3b7e21"},
		{in: "42", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Canonical(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Canonical(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if IsValid(tt.in) == tt.wantErr {
			t.Errorf("IsValid(%q) disagrees with Canonical", tt.in)
		}
	}
}
