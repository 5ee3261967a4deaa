package calendar

import (
	"testing"
	"time"
)

func TestParseVariants(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"ymd literal", "2025-06-10", "2025-06-10"},
		{"rfc3339", "2025-06-10T14:30:00Z", "2025-06-10"},
		{"epoch seconds", int64(1749513600), time.Unix(1749513600, 0).Format("2006-01-02")},
		{"epoch millis float", float64(1749513600000), time.UnixMilli(1749513600000).Format("2006-01-02")},
		{"numeric string", "1749513600", time.Unix(1749513600, 0).Format("2006-01-02")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%v): %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Fatalf("Parse(%v) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, input := range []any{"not-a-date", "2025-13-40", "", nil, true} {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%v) accepted invalid input", input)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"2025-01-01", "2025-02-28", "2024-02-29", "2025-12-31", "2025-03-30", "2025-10-26"} {
		d, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%s): %v", s, err)
		}
		again, err := Parse(d.String())
		if err != nil {
			t.Fatalf("Parse(%s): %v", d, err)
		}
		if again.String() != s {
			t.Errorf("round trip drift: %s -> %s", s, again)
		}
	}
}

func TestDays(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"2025-06-10", "2025-06-10", 1},
		{"2025-06-10", "2025-06-16", 7},
		{"2025-03-28", "2025-04-02", 6},  // month boundary
		{"2025-03-29", "2025-03-31", 3},  // DST transition in Europe
		{"2024-12-30", "2025-01-02", 4},  // year boundary
	}
	for _, tt := range tests {
		from, _ := Parse(tt.from)
		to, _ := Parse(tt.to)
		if got := Days(from, to); got != tt.want {
			t.Errorf("Days(%s, %s) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestEachDay(t *testing.T) {
	from := NewDay(2025, time.July, 1)
	to := NewDay(2025, time.July, 4)
	var seen []string
	EachDay(from, to, func(d Day) bool {
		seen = append(seen, d.String())
		return true
	})
	want := []string{"2025-07-01", "2025-07-02", "2025-07-03", "2025-07-04"}
	if len(seen) != len(want) {
		t.Fatalf("got %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("got %v, want %v", seen, want)
		}
	}

	// early stop
	count := 0
	EachDay(from, to, func(Day) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("EachDay did not stop early, visited %d days", count)
	}
}

func TestDaySet(t *testing.T) {
	s := NewDaySet(NewDay(2025, time.July, 4))
	if !s.Has(NewDay(2025, time.July, 4)) {
		t.Error("expected membership")
	}
	if s.Has(NewDay(2025, time.July, 5)) {
		t.Error("unexpected membership")
	}
}
