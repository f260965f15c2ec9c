package resource

import "testing"

func TestParseCPU(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"0m", 0},
		{"0", 0},
		{"500m", 500},
		{"2", 2000},
		{"1.234", 1234},
		{"0.5", 500},
	}
	for _, c := range cases {
		q, err := ParseCPU(c.in)
		if err != nil {
			t.Fatalf("ParseCPU(%q): %v", c.in, err)
		}
		if q.AsMillicores() != c.want {
			t.Errorf("ParseCPU(%q) = %d millicores, want %d", c.in, q.AsMillicores(), c.want)
		}
	}
}

func TestParseMemory(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"1Ki", 1024},
		{"1023", 1023},
		{"1Gi", 1 << 30},
		{"1G", 1_000_000_000},
		{"128Mi", 134217728},
	}
	for _, c := range cases {
		q, err := ParseMemory(c.in)
		if err != nil {
			t.Fatalf("ParseMemory(%q): %v", c.in, err)
		}
		if q.AsBytes() != c.want {
			t.Errorf("ParseMemory(%q) = %d, want %d", c.in, q.AsBytes(), c.want)
		}
	}
}

func TestFormatPrefersLargestExactUnit(t *testing.T) {
	if got := Format(MemoryBytes(1 << 30)); got != "1Gi" {
		t.Errorf("1Gi round trip: got %s", got)
	}
	if got := Format(MemoryBytes(1 << 20)); got != "1Mi" {
		t.Errorf("1Mi round trip: got %s", got)
	}
	if got := Format(MemoryBytes(1 << 10)); got != "1Ki" {
		t.Errorf("1Ki round trip: got %s", got)
	}
	if got := Format(MemoryBytes(1025)); got != "1025" {
		t.Errorf("non-exact byte count: got %s", got)
	}
}

func TestRoundTrip(t *testing.T) {
	values := []Quantity{CPUCores(2), CPUMillicores(1500), MemoryBytes(1 << 30), MemoryBytes(1 << 20)}
	for _, q := range values {
		formatted := Format(q)
		var reparsed Quantity
		var err error
		if q.Kind == CPU {
			reparsed, err = ParseCPU(formatted)
		} else {
			reparsed, err = ParseMemory(formatted)
		}
		if err != nil {
			t.Fatalf("reparsing %q: %v", formatted, err)
		}
		if reparsed.Value != q.Value {
			t.Errorf("round trip %v -> %q -> %v", q, formatted, reparsed)
		}
	}
}

func TestInvalidQuantities(t *testing.T) {
	if _, err := ParseCPU("not-a-number"); err == nil {
		t.Error("expected error for invalid CPU quantity")
	}
	if _, err := ParseMemory("not-a-number"); err == nil {
		t.Error("expected error for invalid memory quantity")
	}
}
