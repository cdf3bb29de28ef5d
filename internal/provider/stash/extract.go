package stash

import (
	"encoding/json"
	"fmt"

	"github.com/johanforsgren/stashreview/internal/domain"
	"github.com/johanforsgren/stashreview/internal/provider/common"
)

type userJSON struct {
	ID           *int64 `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Email        string `json:"email"`
	EmailAddress string `json:"emailAddress"`
}

type anchorJSON struct {
	Path *string `json:"path"`
	Line *int64  `json:"line"`
}

type taskJSON struct {
	ID                  *int64  `json:"id"`
	Text                *string `json:"text"`
	State               *string `json:"state"`
	PermittedOperations *struct {
		Deletable *bool `json:"deletable"`
	} `json:"permittedOperations"`
}

type commentJSON struct {
	ID      *int64          `json:"id"`
	Text    *string         `json:"text"`
	Anchor  *anchorJSON     `json:"anchor"`
	Author  *userJSON       `json:"author"`
	Version int64           `json:"version"`
	Tasks   json.RawMessage `json:"tasks"`
}

type reviewerJSON struct {
	User *userJSON `json:"user"`
}

type pullRequestJSON struct {
	Version     int64          `json:"version"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Reviewers   []reviewerJSON `json:"reviewers"`
}

type diffPathJSON struct {
	ToString string `json:"toString"`
}

type diffLineJSON struct {
	Source      int64   `json:"source"`
	Destination int64   `json:"destination"`
	CommentIDs  []int64 `json:"commentIds"`
}

type diffSegmentJSON struct {
	Type  string         `json:"type"`
	Lines []diffLineJSON `json:"lines"`
}

type diffHunkJSON struct {
	Segments []diffSegmentJSON `json:"segments"`
}

type diffEntryJSON struct {
	Source       *diffPathJSON  `json:"source"`
	Destination  *diffPathJSON  `json:"destination"`
	Hunks        []diffHunkJSON `json:"hunks"`
	LineComments []commentJSON  `json:"lineComments"`
	FileComments []commentJSON  `json:"fileComments"`
}

type diffReportJSON struct {
	Diffs []diffEntryJSON `json:"diffs"`
}

func extractUser(entity string, u *userJSON) (domain.User, error) {
	if u == nil {
		return domain.User{}, common.NewExtractionError(entity, "missing user object")
	}
	if u.ID == nil {
		return domain.User{}, common.NewExtractionError(entity, "user has no id")
	}
	email := u.Email
	if email == "" {
		email = u.EmailAddress
	}
	return domain.User{ID: *u.ID, Name: u.Name, Slug: u.Slug, Email: email}, nil
}

func extractTasks(raw json.RawMessage) ([]domain.Task, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var entries []taskJSON
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &common.ReportExtractionError{Entity: "task", Reason: "tasks is not a list of task objects", Err: err}
	}
	tasks := make([]domain.Task, 0, len(entries))
	for i, t := range entries {
		if t.ID == nil || t.Text == nil || t.State == nil {
			return nil, common.NewExtractionError("task", fmt.Sprintf("entry %d lacks id, text or state", i))
		}
		task := domain.Task{ID: *t.ID, Text: *t.Text, State: *t.State}
		if t.PermittedOperations != nil {
			task.Deletable = common.GetBool(t.PermittedOperations.Deletable)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// extractComment converts a wire comment. The author is mandatory: a
// comment without one is a shape this client does not understand.
func extractComment(c commentJSON) (domain.Comment, error) {
	if c.ID == nil {
		return domain.Comment{}, common.NewExtractionError("comment", "missing id")
	}
	if c.Author == nil {
		return domain.Comment{}, common.NewExtractionError("comment", fmt.Sprintf("comment %d has no author", *c.ID))
	}
	author, err := extractUser("comment author", c.Author)
	if err != nil {
		return domain.Comment{}, err
	}
	tasks, err := extractTasks(c.Tasks)
	if err != nil {
		return domain.Comment{}, err
	}

	comment := domain.Comment{
		ID:      *c.ID,
		Text:    common.GetString(c.Text),
		Author:  author,
		Version: c.Version,
		Tasks:   tasks,
	}
	if c.Anchor != nil {
		comment.Path = common.GetString(c.Anchor.Path)
		comment.Line = c.Anchor.Line
	}
	return comment, nil
}

// extractFileComments converts a file-scoped listing, where every comment
// must be anchored on a path.
func extractFileComments(values []commentJSON) (*domain.CommentReport, error) {
	report := domain.NewCommentReport()
	for _, v := range values {
		if v.Anchor == nil || v.Anchor.Path == nil {
			return nil, common.NewExtractionError("comment", fmt.Sprintf("comment %d has no anchor describing its path and line", common.GetInt64(v.ID)))
		}
		comment, err := extractComment(v)
		if err != nil {
			return nil, err
		}
		report.Add(comment)
	}
	return report, nil
}

func extractPullRequest(ref domain.PullRequestRef, p pullRequestJSON) (*domain.PullRequest, error) {
	reviewers := make([]domain.User, 0, len(p.Reviewers))
	for _, r := range p.Reviewers {
		user, err := extractUser("pull request reviewer", r.User)
		if err != nil {
			return nil, err
		}
		reviewers = append(reviewers, user)
	}
	return &domain.PullRequest{
		ID:          ref.PullRequestID,
		Project:     ref.Project,
		Repository:  ref.Repository,
		Version:     p.Version,
		Title:       p.Title,
		Description: p.Description,
		Reviewers:   reviewers,
	}, nil
}

func diffPath(e diffEntryJSON) string {
	if e.Destination != nil && e.Destination.ToString != "" {
		return e.Destination.ToString
	}
	if e.Source != nil {
		return e.Source.ToString
	}
	return ""
}

// extractDiffs builds one Diff per line of every hunk segment and attaches
// the line comments referenced by id. File comments attach to a context
// entry on line 0.
func extractDiffs(r diffReportJSON) (*domain.DiffReport, error) {
	report := domain.NewDiffReport()
	for _, entry := range r.Diffs {
		path := diffPath(entry)
		if path == "" {
			return nil, common.NewExtractionError("diff", "entry has neither source nor destination path")
		}

		lineComments := make(map[int64]domain.Comment, len(entry.LineComments))
		for _, lc := range entry.LineComments {
			comment, err := extractComment(lc)
			if err != nil {
				return nil, err
			}
			lineComments[comment.ID] = comment
		}

		for _, hunk := range entry.Hunks {
			for _, segment := range hunk.Segments {
				issueType, err := domain.ParseIssueType(segment.Type)
				if err != nil {
					return nil, &common.ReportExtractionError{Entity: "diff", Reason: "unknown segment type", Err: err}
				}
				for _, line := range segment.Lines {
					d := domain.NewDiff(issueType, path, line.Source, line.Destination)
					for _, id := range line.CommentIDs {
						comment, ok := lineComments[id]
						if !ok {
							continue
						}
						d.AddComment(anchorOnDiff(comment, d))
					}
					report.Add(d)
				}
			}
		}

		if len(entry.FileComments) > 0 {
			fileDiff := domain.NewDiff(domain.IssueTypeContext, path, 0, 0)
			for _, fc := range entry.FileComments {
				comment, err := extractComment(fc)
				if err != nil {
					return nil, err
				}
				if comment.Path == "" {
					comment.Path = path
				}
				fileDiff.AddComment(comment)
			}
			report.Add(fileDiff)
		}
	}
	return report, nil
}

func anchorOnDiff(c domain.Comment, d *domain.Diff) domain.Comment {
	if c.Path == "" {
		c.Path = d.Path
	}
	if c.Line == nil {
		line := d.Destination
		if d.Type == domain.IssueTypeRemoved {
			line = d.Source
		}
		c.Line = &line
	}
	return c
}
