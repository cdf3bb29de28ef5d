package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/johanforsgren/stashreview/internal/domain"
	"github.com/johanforsgren/stashreview/internal/provider/common"
)

func parseID(name, value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return id, nil
}

func newUserCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "user SLUG",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := opts.client.GetUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.print(cmd, user)
		},
	}
}

func newPullRequestCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pr PROJECT/REPO/ID",
		Short: "Show a pull request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := common.ParsePullRequestRef(args[0])
			if err != nil {
				return err
			}
			pr, err := opts.client.GetPullRequest(cmd.Context(), ref)
			if err != nil {
				return err
			}
			return opts.print(cmd, pr)
		},
	}
}

func newCommentsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "comments PROJECT/REPO/ID PATH",
		Short: "List the comments anchored on a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := common.ParsePullRequestRef(args[0])
			if err != nil {
				return err
			}
			report, err := opts.client.GetPullRequestComments(cmd.Context(), ref, args[1])
			if err != nil {
				return err
			}
			return opts.print(cmd, report)
		},
	}
}

func newDiffsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "diffs PROJECT/REPO/ID",
		Short: "Show the diff of a pull request with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := common.ParsePullRequestRef(args[0])
			if err != nil {
				return err
			}
			report, err := opts.client.GetPullRequestDiffs(cmd.Context(), ref)
			if err != nil {
				return err
			}
			return opts.print(cmd, report)
		},
	}
}

func newCommentCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "comment PROJECT/REPO/ID TEXT",
		Short: "Post a general comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := common.ParsePullRequestRef(args[0])
			if err != nil {
				return err
			}
			if err := opts.client.PostCommentOnPullRequest(cmd.Context(), ref, args[1]); err != nil {
				return err
			}
			return opts.print(cmd, actionResult{Action: "comment posted", Target: ref.String()})
		},
	}
}

func newCommentLineCmd(opts *options) *cobra.Command {
	var lineType string
	var skipDuplicates bool

	cmd := &cobra.Command{
		Use:   "comment-line PROJECT/REPO/ID PATH LINE TEXT",
		Short: "Post a comment anchored on a line of a file",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := common.ParsePullRequestRef(args[0])
			if err != nil {
				return err
			}
			line, err := parseID("line", args[2])
			if err != nil {
				return err
			}
			path, text := args[1], args[3]

			issueType := domain.IssueType("")
			if lineType != "" {
				if issueType, err = domain.ParseIssueType(lineType); err != nil {
					return err
				}
			}

			// Without an explicit type, or when skipping duplicates, the
			// diff decides where the comment goes.
			if issueType == "" || skipDuplicates {
				diffs, err := opts.client.GetPullRequestDiffs(cmd.Context(), ref)
				if err != nil {
					return err
				}
				if skipDuplicates && diffs.HasComment(text, path, line) {
					return opts.print(cmd, actionResult{Action: "comment already present", Target: fmt.Sprintf("%s %s:%d", ref, path, line)})
				}
				if issueType == "" {
					t, ok := diffs.Type(path, line, domain.VicinityRangeNone)
					if !ok {
						return fmt.Errorf("line %d of %s is not part of the diff of %s", line, path, ref)
					}
					issueType = t
					line = diffs.Line(path, line)
				}
			}

			comment, err := opts.client.PostCommentLineOnPullRequest(cmd.Context(), ref, text, path, line, issueType)
			if err != nil {
				return err
			}
			return opts.print(cmd, comment)
		},
	}
	cmd.Flags().StringVar(&lineType, "type", "", "line type: CONTEXT, ADDED or REMOVED (looked up in the diff when empty)")
	cmd.Flags().BoolVar(&skipDuplicates, "skip-duplicates", false, "do nothing when the same comment already sits on the line")
	return cmd
}

func newDeleteCommentCmd(opts *options) *cobra.Command {
	var version int64

	cmd := &cobra.Command{
		Use:   "delete-comment PROJECT/REPO/ID COMMENT_ID",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := common.ParsePullRequestRef(args[0])
			if err != nil {
				return err
			}
			id, err := parseID("comment id", args[1])
			if err != nil {
				return err
			}
			if err := opts.client.DeletePullRequestComment(cmd.Context(), ref, domain.Comment{ID: id, Version: version}); err != nil {
				return err
			}
			return opts.print(cmd, actionResult{Action: "comment deleted", Target: fmt.Sprintf("%s#%d", ref, id)})
		},
	}
	cmd.Flags().Int64Var(&version, "version", 0, "comment version the deletion applies to")
	return cmd
}

func newApproveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "approve PROJECT/REPO/ID",
		Short: "Approve a pull request as the authenticated user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := common.ParsePullRequestRef(args[0])
			if err != nil {
				return err
			}
			if err := opts.client.ApprovePullRequest(cmd.Context(), ref); err != nil {
				return err
			}
			return opts.print(cmd, actionResult{Action: "approved", Target: ref.String()})
		},
	}
}

func newUnapproveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "unapprove PROJECT/REPO/ID",
		Short: "Withdraw the approval of the authenticated user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := common.ParsePullRequestRef(args[0])
			if err != nil {
				return err
			}
			if err := opts.client.ResetPullRequestApproval(cmd.Context(), ref); err != nil {
				return err
			}
			return opts.print(cmd, actionResult{Action: "approval reset", Target: ref.String()})
		},
	}
}

// newAddReviewerCmd appends users to the current reviewers. The update is
// sent against the version just fetched.
func newAddReviewerCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add-reviewer PROJECT/REPO/ID SLUG...",
		Short: "Add reviewers to a pull request",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := common.ParsePullRequestRef(args[0])
			if err != nil {
				return err
			}
			pr, err := opts.client.GetPullRequest(cmd.Context(), ref)
			if err != nil {
				return err
			}

			reviewers := append([]domain.User{}, pr.Reviewers...)
			for _, slug := range args[1:] {
				user, err := opts.client.GetUser(cmd.Context(), slug)
				if err != nil {
					return err
				}
				if !containsUser(reviewers, *user) {
					reviewers = append(reviewers, *user)
				}
			}

			if err := opts.client.AddPullRequestReviewer(cmd.Context(), ref, pr.Version, reviewers); err != nil {
				return err
			}
			return opts.print(cmd, actionResult{Action: "reviewers updated", Target: ref.String()})
		},
	}
}

func containsUser(users []domain.User, u domain.User) bool {
	for _, existing := range users {
		if existing.ID == u.ID {
			return true
		}
	}
	return false
}

func newTaskCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "task COMMENT_ID TEXT",
		Short: "Create a task on a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("comment id", args[0])
			if err != nil {
				return err
			}
			if err := opts.client.PostTaskOnComment(cmd.Context(), args[1], id); err != nil {
				return err
			}
			return opts.print(cmd, actionResult{Action: "task created", Target: fmt.Sprintf("comment #%d", id)})
		},
	}
}

func newDeleteTaskCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-task TASK_ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task id", args[0])
			if err != nil {
				return err
			}
			if err := opts.client.DeleteTaskOnComment(cmd.Context(), domain.Task{ID: id}); err != nil {
				return err
			}
			return opts.print(cmd, actionResult{Action: "task deleted", Target: fmt.Sprintf("#%d", id)})
		},
	}
}
