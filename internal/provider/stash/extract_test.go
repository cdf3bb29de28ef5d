package stash

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johanforsgren/stashreview/internal/domain"
	"github.com/johanforsgren/stashreview/internal/provider/common"
)

func parseDiffReport(t *testing.T, body string) *domain.DiffReport {
	t.Helper()
	var payload diffReportJSON
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	report, err := extractDiffs(payload)
	require.NoError(t, err)
	return report
}

func TestExtractDiffsAttachesLineComments(t *testing.T) {
	report := parseDiffReport(t, baseDiffReport)
	const path = "stash-plugin/Test.java"

	diffs := report.Diffs()
	require.Len(t, diffs, 4)
	assert.Equal(t, domain.IssueTypeContext, diffs[0].Type)
	assert.Equal(t, domain.IssueTypeRemoved, diffs[1].Type)
	assert.Equal(t, domain.IssueTypeAdded, diffs[2].Type)

	assert.True(t, diffs[0].ContainsComment(12345))
	assert.True(t, diffs[2].ContainsComment(54321))
	assert.False(t, diffs[1].ContainsComment(54321))

	assert.True(t, report.HasComment("Comment 1", path, 10))
	assert.True(t, report.HasComment("Comment 2", path, 11))
	assert.False(t, report.HasComment("Comment 2", path, 12))

	first := diffs[0].Comments()[0]
	assert.Equal(t, path, first.Path)
	require.Len(t, first.Tasks, 1)
	assert.Equal(t, domain.Task{ID: 1, Text: "fix it", State: "OPEN", Deletable: true}, first.Tasks[0])

	typ, ok := report.Type(path, 12, domain.VicinityRangeNone)
	require.True(t, ok)
	assert.Equal(t, domain.IssueTypeContext, typ)
	_, ok = report.Type(path, 50, domain.VicinityRangeNone)
	assert.False(t, ok)
	assert.Len(t, report.Comments(), 2)
}

func TestExtractDiffsFileComments(t *testing.T) {
	body := `{"diffs": [{
		"source": null,
		"destination": {"toString": "new/File.java"},
		"hunks": [],
		"fileComments": [{"id": 7, "text": "file level", ` + sonarAuthor + `}]
	}]}`
	report := parseDiffReport(t, body)

	diffs := report.Diffs()
	require.Len(t, diffs, 1)
	assert.True(t, diffs[0].IsTypeOfContext())
	assert.Equal(t, int64(0), diffs[0].Destination)
	assert.True(t, report.HasComment("file level", "new/File.java", 0))
}

func TestExtractDiffsUsesSourcePathForDeletedFile(t *testing.T) {
	body := `{"diffs": [{
		"source": {"toString": "old/Gone.java"},
		"destination": null,
		"hunks": [{"segments": [{"type": "REMOVED", "lines": [{"source": 1, "destination": 0}]}]}]
	}]}`
	report := parseDiffReport(t, body)
	require.Len(t, report.Diffs(), 1)
	assert.Equal(t, "old/Gone.java", report.Diffs()[0].Path)
}

func TestExtractDiffsRejectsUnknownSegment(t *testing.T) {
	var payload diffReportJSON
	body := `{"diffs": [{"destination": {"toString": "a"}, "hunks": [{"segments": [{"type": "MOVED", "lines": [{"source": 1, "destination": 1}]}]}]}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	_, err := extractDiffs(payload)
	var ree *common.ReportExtractionError
	assert.True(t, errors.As(err, &ree))
}

func TestExtractTasks(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []domain.Task
		wantErr bool
	}{
		{name: "absent", raw: ``},
		{name: "null", raw: `null`},
		{name: "empty", raw: `[]`, want: []domain.Task{}},
		{name: "not deletable by default", raw: `[{"id": 3, "text": "t", "state": "RESOLVED"}]`, want: []domain.Task{{ID: 3, Text: "t", State: "RESOLVED"}}},
		{name: "not a list", raw: `{"id": 3}`, wantErr: true},
		{name: "list of scalars", raw: `[1, 2]`, wantErr: true},
		{name: "missing state", raw: `[{"id": 3, "text": "t"}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractTasks(json.RawMessage(tt.raw))
			if tt.wantErr {
				var ree *common.ReportExtractionError
				assert.True(t, errors.As(err, &ree), "want ReportExtractionError, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractUser(t *testing.T) {
	id := int64(9)
	user, err := extractUser("user", &userJSON{ID: &id, Name: "n", Slug: "s", EmailAddress: "n@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "n@example.com", user.Email)

	_, err = extractUser("user", nil)
	assert.Error(t, err)
	_, err = extractUser("user", &userJSON{Name: "no id"})
	assert.Error(t, err)
}

func TestExtractCommentWithoutAnchorIsGlobal(t *testing.T) {
	var c commentJSON
	require.NoError(t, json.Unmarshal([]byte(`{"id": 5, "text": "hello", `+sonarAuthor+`, "version": 2}`), &c))

	comment, err := extractComment(c)
	require.NoError(t, err)
	assert.True(t, comment.IsGlobal())
	assert.Equal(t, int64(2), comment.Version)
}
