package report

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Roll Number", "Name", "Attendance %"}
	rows := [][]string{
		{"1", "Alice", "50.00"},
		{"12", "Bob", "100.00"},
	}
	rightAlign := map[int]bool{2: true}

	lines := formatStyledTable(headers, rows, rightAlign, nil)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Roll Number Name  Attendance %" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "1           Alice        50.00" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "12          Bob         100.00" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableUsesDisplayWidth(t *testing.T) {
	lines := formatStyledTable([]string{"Name", "Roll"}, [][]string{{"李雷", "1"}, {"Ann", "2"}}, nil, nil)
	if lines[1] != "李雷 1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "Ann  2" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}
