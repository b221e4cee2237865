package view

import "testing"

// TestParseRoundTrip verifies every view parses back from its name.
func TestParseRoundTrip(t *testing.T) {
	for _, v := range All() {
		got, err := Parse(v.String())
		if err != nil || got != v {
			t.Errorf("Parse(%q) = %v, %v", v.String(), got, err)
		}
	}
}

// TestParseDefaultAndUnknown verifies the empty name selects the program tab
// and unknown names are rejected.
func TestParseDefaultAndUnknown(t *testing.T) {
	if v, err := Parse(""); err != nil || v != ProgramEntry {
		t.Errorf("Parse(\"\") = %v, %v", v, err)
	}
	if _, err := Parse("settings"); err == nil {
		t.Error("expected error for unknown view")
	}
}

// TestNextPrevWrap verifies tab cycling wraps in both directions.
func TestNextPrevWrap(t *testing.T) {
	if History.Next() != ProgramEntry {
		t.Errorf("History.Next() = %v", History.Next())
	}
	if ProgramEntry.Prev() != History {
		t.Errorf("ProgramEntry.Prev() = %v", ProgramEntry.Prev())
	}
	if ProgramEntry.Next() != Progress || Progress.Prev() != ProgramEntry {
		t.Error("adjacent tabs out of order")
	}
}

// TestStringOutOfRange verifies invalid values still print.
func TestStringOutOfRange(t *testing.T) {
	if got := View(7).String(); got != "View(7)" {
		t.Errorf("String = %q", got)
	}
}
