package reservation

import "testing"

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"", StatusActive},
		{"active", StatusActive},
		{"Active", StatusActive},
		{"canceled", StatusCanceled},
		{"cancelled", StatusCanceled},
		{"CANCELLED", StatusCanceled},
		{"confirmed", Status("confirmed")},
	}
	for _, tt := range tests {
		if got := NormalizeStatus(tt.raw); got != tt.want {
			t.Errorf("NormalizeStatus(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestStatusBlocks(t *testing.T) {
	for _, s := range []Status{StatusActive, "reserved", "confirmed", "ongoing"} {
		if !s.Blocks() {
			t.Errorf("%s should block the calendar", s)
		}
	}
	for _, s := range []Status{StatusCanceled, "new", "archived"} {
		if s.Blocks() {
			t.Errorf("%s should not block the calendar", s)
		}
	}
}

func TestTenantRefMatching(t *testing.T) {
	tagged := TaggedTenant("Rental.Example.COM")
	if !tagged.Matches("rental.example.com") {
		t.Error("tagged ref must match its own tenant case-insensitively")
	}
	if tagged.Matches("other.example.com") {
		t.Error("tagged ref must not match a different tenant")
	}

	legacy := UntaggedTenant()
	if !legacy.Matches("rental.example.com") || !legacy.Matches("other.example.com") {
		t.Error("untagged legacy records are visible to every tenant")
	}

	if TaggedTenant("").Tagged() {
		t.Error("empty tenant id folds to untagged")
	}
}

func TestParseRequestType(t *testing.T) {
	if ParseRequestType("rattachement") != TypeRattachement {
		t.Error("rattachement not recognized")
	}
	for _, raw := range []string{"", "simple", "anything"} {
		if ParseRequestType(raw) != TypeSimple {
			t.Errorf("ParseRequestType(%q) should fold to simple", raw)
		}
	}
}
