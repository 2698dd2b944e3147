package reverse

import (
	"strings"
	"testing"
)

func TestToDOT(t *testing.T) {
	idx := NewIndex()
	idx.Add(Ref{Name: "t", Version: "1.0.0"}, Ref{Name: "m", Version: "1.0.0"})
	idx.Add(Ref{Name: "m", Version: "1.0.0"}, Ref{Name: "n", Version: "1.0.0"})
	// Edge to a package outside the walk result must not appear.
	idx.Add(Ref{Name: "t", Version: "1.0.0"}, Ref{Name: "unrelated", Version: "1.0.0"})

	refs := []Ref{{Name: "m", Version: "1.0.0"}, {Name: "n", Version: "1.0.0"}}
	dot := ToDOT(idx, "t", refs)

	for _, want := range []string{
		`"t" [fillcolor=lightblue];`,
		`"m";`,
		`"n";`,
		`"t" -> "m";`,
		`"m" -> "n";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "unrelated") {
		t.Errorf("DOT must not include packages outside the result:\n%s", dot)
	}

	// Deterministic output
	if again := ToDOT(idx, "t", refs); again != dot {
		t.Error("ToDOT output is not deterministic")
	}
}
