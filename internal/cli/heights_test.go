package cli

import (
	"strings"
	"testing"

	errs "github.com/matzehuels/meltgauge/pkg/errors"
)

func TestParseQuantities(t *testing.T) {
	got, err := parseQuantities([]string{"250", "0", "1296"})
	if err != nil {
		t.Fatalf("parseQuantities: %v", err)
	}
	if len(got) != 3 || got[0] != 250 || got[1] != 0 || got[2] != 1296 {
		t.Errorf("parseQuantities = %v", got)
	}

	for _, bad := range []string{"-1", "ten", "1.5"} {
		if _, err := parseQuantities([]string{bad}); !errs.Is(err, errs.ErrCodeInvalidInput) {
			t.Errorf("parseQuantities(%q) = %v, want INVALID_INPUT", bad, err)
		}
	}
}

func TestHeightsTable(t *testing.T) {
	out := heightsTable([]int{250, 0, 250}, []int{12, 0, 12})

	for _, want := range []string{"Layer", "Offsets", "0..11", "12..23"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
