package domain

// Diff is one line entry of a pull request changeset together with the
// comments the server reported on it. Only the caller that fetched the
// owning DiffReport may call AddComment.
type Diff struct {
	Type        IssueType
	Path        string
	Source      int64
	Destination int64

	comments   []Comment
	commentIDs map[int64]struct{}
}

func NewDiff(issueType IssueType, path string, source, destination int64) *Diff {
	return &Diff{
		Type:        issueType,
		Path:        path,
		Source:      source,
		Destination: destination,
		commentIDs:  make(map[int64]struct{}),
	}
}

func (d *Diff) AddComment(c Comment) {
	if d.commentIDs == nil {
		d.commentIDs = make(map[int64]struct{})
	}
	if _, ok := d.commentIDs[c.ID]; ok {
		return
	}
	d.commentIDs[c.ID] = struct{}{}
	d.comments = append(d.comments, c)
}

func (d *Diff) ContainsComment(id int64) bool {
	_, ok := d.commentIDs[id]
	return ok
}

func (d *Diff) Comments() []Comment {
	out := make([]Comment, len(d.comments))
	copy(out, d.comments)
	return out
}

func (d *Diff) IsTypeOfContext() bool {
	return d.Type == IssueTypeContext
}

// VicinityRangeNone restricts context matching to the exact line.
const VicinityRangeNone = 0

// DiffReport holds every line entry of a pull request diff in server order.
// Hunks may repeat a line, so lookups scan all entries.
type DiffReport struct {
	diffs []*Diff
}

func NewDiffReport(diffs ...*Diff) *DiffReport {
	return &DiffReport{diffs: diffs}
}

func (r *DiffReport) Add(diffs ...*Diff) {
	r.diffs = append(r.diffs, diffs...)
}

func (r *DiffReport) Diffs() []*Diff {
	out := make([]*Diff, len(r.diffs))
	copy(out, r.diffs)
	return out
}

// Type classifies a destination line of path. Added and removed entries on
// the exact line take precedence over context entries; line 0 is a global
// comment and always classifies as context. The boolean is false when the
// line is not part of the diff.
func (r *DiffReport) Type(path string, destination int64, vicinityRange int64) (IssueType, bool) {
	inContext := false
	for _, d := range r.diffs {
		if d.Path != path {
			continue
		}
		if destination == 0 {
			return IssueTypeContext, true
		}
		if !d.IsTypeOfContext() && d.Destination == destination {
			return d.Type, true
		}
		if d.IsTypeOfContext() && withinVicinity(d, destination, vicinityRange) {
			inContext = true
		}
	}
	if inContext {
		return IssueTypeContext, true
	}
	return "", false
}

func withinVicinity(d *Diff, destination, vicinityRange int64) bool {
	if vicinityRange < 0 {
		vicinityRange = 0
	}
	return d.Destination-vicinityRange <= destination && destination <= d.Destination+vicinityRange
}

// Line returns the line a comment for destination must be anchored on:
// the destination of an added or context entry, else the source of a
// removed entry. It returns 0 when path/destination is not in the diff.
func (r *DiffReport) Line(path string, destination int64) int64 {
	var removed *Diff
	for _, d := range r.diffs {
		if d.Path != path || d.Destination != destination {
			continue
		}
		if d.Type != IssueTypeRemoved {
			return d.Destination
		}
		if removed == nil {
			removed = d
		}
	}
	if removed != nil {
		return removed.Source
	}
	return 0
}

func (r *DiffReport) DiffByComment(id int64) *Diff {
	for _, d := range r.diffs {
		if d.ContainsComment(id) {
			return d
		}
	}
	return nil
}

// Comments returns every attached comment once, in first-seen order.
func (r *DiffReport) Comments() []Comment {
	seen := make(map[int64]struct{})
	var out []Comment
	for _, d := range r.diffs {
		for _, c := range d.comments {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// HasComment reports whether a comment with text already sits on line of path.
func (r *DiffReport) HasComment(text, path string, line int64) bool {
	for _, d := range r.diffs {
		if d.Path != path {
			continue
		}
		for _, c := range d.comments {
			if c.Text != text {
				continue
			}
			if c.Line != nil && *c.Line == line {
				return true
			}
			if c.Line == nil && d.Destination == line {
				return true
			}
		}
	}
	return false
}
