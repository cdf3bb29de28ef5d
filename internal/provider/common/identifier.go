package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/johanforsgren/stashreview/internal/domain"
)

// ParsePullRequestRef parses "PROJECT/repo/123" into a pull request reference.
func ParsePullRequestRef(identifier string) (domain.PullRequestRef, error) {
	parts := strings.Split(identifier, "/")
	if len(parts) != 3 {
		return domain.PullRequestRef{}, fmt.Errorf("%w: expected 'project/repo/number', got '%s'", ErrInvalidIdentifierFormat, identifier)
	}

	project := parts[0]
	repo := parts[1]
	number, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return domain.PullRequestRef{}, fmt.Errorf("%w: invalid PR number '%s'", ErrInvalidIdentifierFormat, parts[2])
	}

	if project == "" || repo == "" || number <= 0 {
		return domain.PullRequestRef{}, fmt.Errorf("%w: project, repo, and number must be non-empty and positive", ErrInvalidIdentifierFormat)
	}

	return domain.PullRequestRef{Project: project, Repository: repo, PullRequestID: number}, nil
}
