package domain

import (
	"fmt"
	"strings"
)

type IssueType string

const (
	IssueTypeContext IssueType = "CONTEXT"
	IssueTypeAdded   IssueType = "ADDED"
	IssueTypeRemoved IssueType = "REMOVED"
)

func ParseIssueType(s string) (IssueType, error) {
	switch t := IssueType(strings.ToUpper(strings.TrimSpace(s))); t {
	case IssueTypeContext, IssueTypeAdded, IssueTypeRemoved:
		return t, nil
	default:
		return "", fmt.Errorf("unknown issue type %q", s)
	}
}

// PullRequestRef identifies a pull request across all client operations.
type PullRequestRef struct {
	Project       string
	Repository    string
	PullRequestID int64
}

func (r PullRequestRef) String() string {
	return fmt.Sprintf("%s/%s/%d", r.Project, r.Repository, r.PullRequestID)
}

type User struct {
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Slug  string `json:"slug" yaml:"slug"`
	Email string `json:"email" yaml:"email"`
}

type Task struct {
	ID        int64  `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	State     string `json:"state" yaml:"state"`
	Deletable bool   `json:"deletable" yaml:"deletable"`
}

// Comment is a pull request comment. Line is nil for global comments.
type Comment struct {
	ID      int64  `json:"id" yaml:"id"`
	Text    string `json:"text" yaml:"text"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Line    *int64 `json:"line,omitempty" yaml:"line,omitempty"`
	Author  User   `json:"author" yaml:"author"`
	Version int64  `json:"version" yaml:"version"`
	Tasks   []Task `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

func (c Comment) IsGlobal() bool {
	return c.Line == nil
}

func (c Comment) matches(text, path string, line int64) bool {
	return c.Line != nil && *c.Line == line && c.Path == path && c.Text == text
}

// CommentReport is the ordered result of a comment listing.
type CommentReport struct {
	comments []Comment
}

func NewCommentReport(comments ...Comment) *CommentReport {
	r := &CommentReport{}
	r.Add(comments...)
	return r
}

func (r *CommentReport) Add(comments ...Comment) {
	r.comments = append(r.comments, comments...)
}

func (r *CommentReport) Comments() []Comment {
	out := make([]Comment, len(r.comments))
	copy(out, r.comments)
	return out
}

func (r *CommentReport) Size() int {
	return len(r.comments)
}

func (r *CommentReport) Contains(text, path string, line int64) bool {
	for _, c := range r.comments {
		if c.matches(text, path, line) {
			return true
		}
	}
	return false
}

func (r *CommentReport) FindByID(id int64) (Comment, bool) {
	for _, c := range r.comments {
		if c.ID == id {
			return c, true
		}
	}
	return Comment{}, false
}

type PullRequest struct {
	ID          int64  `json:"id" yaml:"id"`
	Project     string `json:"project" yaml:"project"`
	Repository  string `json:"repository" yaml:"repository"`
	Version     int64  `json:"version" yaml:"version"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Reviewers   []User `json:"reviewers" yaml:"reviewers"`
}

func (p PullRequest) Ref() PullRequestRef {
	return PullRequestRef{Project: p.Project, Repository: p.Repository, PullRequestID: p.ID}
}
