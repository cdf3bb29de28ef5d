package domain

import "testing"

func int64Ptr(v int64) *int64 {
	return &v
}

func TestDiffContainsComment(t *testing.T) {
	diff1 := NewDiff(IssueTypeContext, "path/to/diff1", 10, 20)
	diff1.AddComment(Comment{ID: 12345})

	diff2 := NewDiff(IssueTypeAdded, "path/to/diff2", 20, 30)
	diff2.AddComment(Comment{ID: 54321})

	diff3 := NewDiff(IssueTypeContext, "path/to/diff3", 30, 40)

	tests := []struct {
		name string
		diff *Diff
		id   int64
		want bool
	}{
		{name: "attached comment", diff: diff1, id: 12345, want: true},
		{name: "comment attached elsewhere", diff: diff1, id: 54321, want: false},
		{name: "diff without comments", diff: diff3, id: 12345, want: false},
		{name: "added diff", diff: diff2, id: 54321, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.diff.ContainsComment(tt.id); got != tt.want {
				t.Errorf("ContainsComment(%d) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestDiffAddCommentTransition(t *testing.T) {
	d := NewDiff(IssueTypeRemoved, "a.go", 3, 4)
	if d.ContainsComment(7) {
		t.Fatal("ContainsComment(7) = true before AddComment")
	}
	d.AddComment(Comment{ID: 7})
	if !d.ContainsComment(7) {
		t.Fatal("ContainsComment(7) = false after AddComment")
	}
	d.AddComment(Comment{ID: 7})
	if len(d.Comments()) != 1 {
		t.Errorf("Comments() len = %d, want 1 after duplicate add", len(d.Comments()))
	}
}

func TestDiffZeroValueAddComment(t *testing.T) {
	var d Diff
	d.AddComment(Comment{ID: 1})
	if !d.ContainsComment(1) {
		t.Error("zero value Diff should accept comments")
	}
}

func TestDiffIsTypeOfContext(t *testing.T) {
	if !NewDiff(IssueTypeContext, "p", 1, 1).IsTypeOfContext() {
		t.Error("context diff should report IsTypeOfContext")
	}
	if NewDiff(IssueTypeAdded, "p", 1, 1).IsTypeOfContext() {
		t.Error("added diff should not report IsTypeOfContext")
	}
}

func sampleReport() *DiffReport {
	return NewDiffReport(
		NewDiff(IssueTypeContext, "src/main.go", 10, 10),
		NewDiff(IssueTypeAdded, "src/main.go", 0, 11),
		NewDiff(IssueTypeRemoved, "src/main.go", 11, 12),
		NewDiff(IssueTypeContext, "src/main.go", 12, 12),
		// duplicate hunk entry for the same line
		NewDiff(IssueTypeContext, "src/main.go", 12, 12),
		NewDiff(IssueTypeContext, "src/other.go", 5, 5),
	)
}

func TestDiffReportType(t *testing.T) {
	report := sampleReport()

	tests := []struct {
		name        string
		path        string
		destination int64
		vicinity    int64
		want        IssueType
		wantOK      bool
	}{
		{name: "added line", path: "src/main.go", destination: 11, want: IssueTypeAdded, wantOK: true},
		{name: "removed wins over context on same line", path: "src/main.go", destination: 12, want: IssueTypeRemoved, wantOK: true},
		{name: "context line", path: "src/main.go", destination: 10, want: IssueTypeContext, wantOK: true},
		{name: "global comment line", path: "src/main.go", destination: 0, want: IssueTypeContext, wantOK: true},
		{name: "outside the diff", path: "src/main.go", destination: 40, wantOK: false},
		{name: "within vicinity", path: "src/other.go", destination: 8, vicinity: 3, want: IssueTypeContext, wantOK: true},
		{name: "outside vicinity", path: "src/other.go", destination: 9, vicinity: 3, wantOK: false},
		{name: "unknown path", path: "missing.go", destination: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := report.Type(tt.path, tt.destination, tt.vicinity)
			if ok != tt.wantOK {
				t.Fatalf("Type() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Type() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDiffReportLine(t *testing.T) {
	report := NewDiffReport(
		NewDiff(IssueTypeRemoved, "a.go", 7, 9),
		NewDiff(IssueTypeAdded, "a.go", 0, 10),
		NewDiff(IssueTypeRemoved, "a.go", 8, 10),
	)

	if got := report.Line("a.go", 10); got != 10 {
		t.Errorf("Line(a.go, 10) = %d, want 10", got)
	}
	if got := report.Line("a.go", 9); got != 7 {
		t.Errorf("Line(a.go, 9) = %d, want 7", got)
	}
	if got := report.Line("a.go", 99); got != 0 {
		t.Errorf("Line(a.go, 99) = %d, want 0", got)
	}
}

func TestDiffReportCommentsDeduplicatesAcrossHunks(t *testing.T) {
	c := Comment{ID: 42, Text: "duplicate", Path: "a.go", Line: int64Ptr(3)}
	d1 := NewDiff(IssueTypeContext, "a.go", 3, 3)
	d2 := NewDiff(IssueTypeContext, "a.go", 3, 3)
	d1.AddComment(c)
	d2.AddComment(c)
	report := NewDiffReport(d1, d2)

	if got := len(report.Comments()); got != 1 {
		t.Errorf("Comments() len = %d, want 1", got)
	}
	if report.DiffByComment(42) != d1 {
		t.Error("DiffByComment(42) should return the first diff carrying the comment")
	}
	if report.DiffByComment(43) != nil {
		t.Error("DiffByComment(43) should be nil")
	}
}

func TestDiffReportHasComment(t *testing.T) {
	d := NewDiff(IssueTypeAdded, "a.go", 0, 5)
	d.AddComment(Comment{ID: 1, Text: "anchored", Path: "a.go", Line: int64Ptr(5)})
	d.AddComment(Comment{ID: 2, Text: "unanchored"})
	report := NewDiffReport(d)

	tests := []struct {
		text string
		path string
		line int64
		want bool
	}{
		{"anchored", "a.go", 5, true},
		{"unanchored", "a.go", 5, true},
		{"anchored", "a.go", 6, false},
		{"anchored", "b.go", 5, false},
		{"other", "a.go", 5, false},
	}

	for _, tt := range tests {
		if got := report.HasComment(tt.text, tt.path, tt.line); got != tt.want {
			t.Errorf("HasComment(%q, %q, %d) = %v, want %v", tt.text, tt.path, tt.line, got, tt.want)
		}
	}
}
