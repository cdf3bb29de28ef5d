package domain

import "context"

// ReviewClient is the surface the review orchestration layer depends on.
type ReviewClient interface {
	PostCommentOnPullRequest(ctx context.Context, ref PullRequestRef, text string) error

	GetPullRequestComments(ctx context.Context, ref PullRequestRef, path string) (*CommentReport, error)

	GetPullRequestDiffs(ctx context.Context, ref PullRequestRef) (*DiffReport, error)

	PostCommentLineOnPullRequest(ctx context.Context, ref PullRequestRef, text, path string, line int64, issueType IssueType) (*Comment, error)

	GetUser(ctx context.Context, slug string) (*User, error)

	DeletePullRequestComment(ctx context.Context, ref PullRequestRef, comment Comment) error

	GetPullRequest(ctx context.Context, ref PullRequestRef) (*PullRequest, error)

	ApprovePullRequest(ctx context.Context, ref PullRequestRef) error

	ResetPullRequestApproval(ctx context.Context, ref PullRequestRef) error

	AddPullRequestReviewer(ctx context.Context, ref PullRequestRef, version int64, reviewers []User) error

	PostTaskOnComment(ctx context.Context, text string, commentID int64) error

	DeleteTaskOnComment(ctx context.Context, task Task) error
}
