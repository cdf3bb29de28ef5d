package stash

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/go-querystring/query"

	"github.com/johanforsgren/stashreview/internal/domain"
	"github.com/johanforsgren/stashreview/internal/logger"
)

type commentListOptions struct {
	Path  string `url:"path"`
	Start int64  `url:"start"`
}

type commentDeleteOptions struct {
	Version int64 `url:"version"`
}

type anchorRequest struct {
	Line     int64  `json:"line"`
	LineType string `json:"lineType"`
	FileType string `json:"fileType"`
	Path     string `json:"path"`
	SrcPath  string `json:"srcPath"`
}

type commentRequest struct {
	Text   string         `json:"text"`
	Anchor *anchorRequest `json:"anchor,omitempty"`
}

type reviewerUserRequest struct {
	Name string `json:"name"`
}

type reviewerRequest struct {
	User reviewerUserRequest `json:"user"`
}

type updateReviewersRequest struct {
	ID        int64             `json:"id"`
	Version   int64             `json:"version"`
	Reviewers []reviewerRequest `json:"reviewers"`
}

type taskAnchorRequest struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type taskRequest struct {
	Anchor taskAnchorRequest `json:"anchor"`
	Text   string            `json:"text"`
}

func pullRequestPath(ref domain.PullRequestRef, suffix ...string) string {
	segments := []string{
		"projects", ref.Project,
		"repos", ref.Repository,
		"pull-requests", strconv.FormatInt(ref.PullRequestID, 10),
	}
	return apiPath(append(segments, suffix...)...)
}

func encodeQuery(opts interface{}) (url.Values, error) {
	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	return v, nil
}

func (c *Client) PostCommentOnPullRequest(ctx context.Context, ref domain.PullRequestRef, text string) error {
	logger.Debug("Stash: Posting comment on %s", ref)
	err := c.call(ctx, "post comment", http.MethodPost, pullRequestPath(ref, "comments"), nil,
		commentRequest{Text: text}, []int{http.StatusCreated}, nil)
	if err != nil {
		logger.LogError("STASH_POST_COMMENT", ref.String(), err)
		return err
	}
	return nil
}

// GetPullRequestComments lists every comment anchored on path, following
// pages until the server reports the last one.
func (c *Client) GetPullRequestComments(ctx context.Context, ref domain.PullRequestRef, path string) (*domain.CommentReport, error) {
	logger.Debug("Stash: Listing comments of %s on %s", ref, path)
	endpoint := pullRequestPath(ref, "comments")

	values, err := fetchAll(ctx, func(ctx context.Context, start int64) (page[commentJSON], error) {
		var p page[commentJSON]
		q, err := encodeQuery(commentListOptions{Path: path, Start: start})
		if err != nil {
			return p, err
		}
		err = c.call(ctx, "list comments", http.MethodGet, endpoint, q, nil, []int{http.StatusOK}, &p)
		return p, err
	})
	if err != nil {
		logger.LogError("STASH_LIST_COMMENTS", ref.String(), err)
		return nil, err
	}

	report, err := extractFileComments(values)
	if err != nil {
		logger.LogError("STASH_LIST_COMMENTS", ref.String(), err)
		return nil, err
	}
	logger.Debug("Stash: Found %d comments on %s", report.Size(), path)
	return report, nil
}

// GetPullRequestDiffs fetches the diff of a pull request with the comments
// attached to its lines. Status, content type and transport failures are
// reported as *common.ClientError. A successful response whose payload is
// malformed, malformed tasks included, is reported as
// *common.ReportExtractionError and is never wrapped in a ClientError.
func (c *Client) GetPullRequestDiffs(ctx context.Context, ref domain.PullRequestRef) (*domain.DiffReport, error) {
	logger.Debug("Stash: Getting diff of %s", ref)
	var payload diffReportJSON
	if err := c.call(ctx, "get diff", http.MethodGet, pullRequestPath(ref, "diff"), nil, nil, []int{http.StatusOK}, &payload); err != nil {
		logger.LogError("STASH_GET_DIFF", ref.String(), err)
		return nil, err
	}

	report, err := extractDiffs(payload)
	if err != nil {
		logger.LogError("STASH_GET_DIFF", ref.String(), err)
		return nil, err
	}
	logger.Debug("Stash: Parsed diff of %s into %d entries", ref, len(report.Diffs()))
	return report, nil
}

// PostCommentLineOnPullRequest anchors a comment on line of path. Removed
// lines are addressed on the source side of the diff.
func (c *Client) PostCommentLineOnPullRequest(ctx context.Context, ref domain.PullRequestRef, text, path string, line int64, issueType domain.IssueType) (*domain.Comment, error) {
	fileType := "TO"
	if issueType == domain.IssueTypeRemoved {
		fileType = "FROM"
	}
	body := commentRequest{
		Text: text,
		Anchor: &anchorRequest{
			Line:     line,
			LineType: string(issueType),
			FileType: fileType,
			Path:     path,
			SrcPath:  path,
		},
	}

	var payload commentJSON
	if err := c.call(ctx, "post line comment", http.MethodPost, pullRequestPath(ref, "comments"), nil, body, []int{http.StatusCreated}, &payload); err != nil {
		logger.LogError("STASH_POST_LINE_COMMENT", fmt.Sprintf("%s %s:%d", ref, path, line), err)
		return nil, err
	}

	comment, err := extractComment(payload)
	if err != nil {
		logger.LogError("STASH_POST_LINE_COMMENT", fmt.Sprintf("%s %s:%d", ref, path, line), err)
		return nil, err
	}
	return &comment, nil
}

func (c *Client) GetUser(ctx context.Context, slug string) (*domain.User, error) {
	var payload userJSON
	if err := c.call(ctx, "get user", http.MethodGet, apiPath("users", slug), nil, nil, []int{http.StatusOK}, &payload); err != nil {
		logger.LogError("STASH_GET_USER", slug, err)
		return nil, err
	}

	user, err := extractUser("user", &payload)
	if err != nil {
		logger.LogError("STASH_GET_USER", slug, err)
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeletePullRequestComment(ctx context.Context, ref domain.PullRequestRef, comment domain.Comment) error {
	q, err := encodeQuery(commentDeleteOptions{Version: comment.Version})
	if err != nil {
		return err
	}
	path := pullRequestPath(ref, "comments", strconv.FormatInt(comment.ID, 10))
	if err := c.call(ctx, "delete comment", http.MethodDelete, path, q, nil, []int{http.StatusNoContent}, nil); err != nil {
		logger.LogError("STASH_DELETE_COMMENT", fmt.Sprintf("%s#%d", ref, comment.ID), err)
		return err
	}
	return nil
}

// GetPullRequest fetches a pull request. Identity fields come from ref.
func (c *Client) GetPullRequest(ctx context.Context, ref domain.PullRequestRef) (*domain.PullRequest, error) {
	logger.Debug("Stash: Getting PR %s", ref)
	var payload pullRequestJSON
	if err := c.call(ctx, "get pull request", http.MethodGet, pullRequestPath(ref), nil, nil, []int{http.StatusOK}, &payload); err != nil {
		logger.LogError("STASH_GET_PR", ref.String(), err)
		return nil, err
	}

	pr, err := extractPullRequest(ref, payload)
	if err != nil {
		logger.LogError("STASH_GET_PR", ref.String(), err)
		return nil, err
	}
	return pr, nil
}

func (c *Client) ApprovePullRequest(ctx context.Context, ref domain.PullRequestRef) error {
	logger.Log("Stash: Approving PR %s", ref)
	if err := c.call(ctx, "approve pull request", http.MethodPost, pullRequestPath(ref, "approve"), nil, nil,
		[]int{http.StatusOK, http.StatusNoContent}, nil); err != nil {
		logger.LogError("STASH_APPROVE_PR", ref.String(), err)
		return err
	}
	return nil
}

func (c *Client) ResetPullRequestApproval(ctx context.Context, ref domain.PullRequestRef) error {
	logger.Log("Stash: Resetting approval of PR %s", ref)
	if err := c.call(ctx, "reset approval", http.MethodDelete, pullRequestPath(ref, "approve"), nil, nil,
		[]int{http.StatusOK, http.StatusNoContent}, nil); err != nil {
		logger.LogError("STASH_RESET_APPROVAL", ref.String(), err)
		return err
	}
	return nil
}

// AddPullRequestReviewer replaces the reviewer list of the pull request at
// version. An empty list is sent as [].
func (c *Client) AddPullRequestReviewer(ctx context.Context, ref domain.PullRequestRef, version int64, reviewers []domain.User) error {
	body := updateReviewersRequest{
		ID:        ref.PullRequestID,
		Version:   version,
		Reviewers: make([]reviewerRequest, 0, len(reviewers)),
	}
	for _, r := range reviewers {
		body.Reviewers = append(body.Reviewers, reviewerRequest{User: reviewerUserRequest{Name: r.Name}})
	}

	if err := c.call(ctx, "add reviewer", http.MethodPut, pullRequestPath(ref), nil, body, []int{http.StatusOK}, nil); err != nil {
		logger.LogError("STASH_ADD_REVIEWER", ref.String(), err)
		return err
	}
	return nil
}

func (c *Client) PostTaskOnComment(ctx context.Context, text string, commentID int64) error {
	body := taskRequest{
		Anchor: taskAnchorRequest{ID: commentID, Type: "COMMENT"},
		Text:   text,
	}
	if err := c.call(ctx, "post task", http.MethodPost, apiPath("tasks"), nil, body, []int{http.StatusCreated}, nil); err != nil {
		logger.LogError("STASH_POST_TASK", strconv.FormatInt(commentID, 10), err)
		return err
	}
	return nil
}

func (c *Client) DeleteTaskOnComment(ctx context.Context, task domain.Task) error {
	if err := c.call(ctx, "delete task", http.MethodDelete, apiPath("tasks", strconv.FormatInt(task.ID, 10)), nil, nil,
		[]int{http.StatusNoContent}, nil); err != nil {
		logger.LogError("STASH_DELETE_TASK", strconv.FormatInt(task.ID, 10), err)
		return err
	}
	return nil
}
