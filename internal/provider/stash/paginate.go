package stash

import "context"

// page is the paged list envelope used by list endpoints.
type page[T any] struct {
	Values        []T    `json:"values"`
	IsLastPage    *bool  `json:"isLastPage"`
	NextPageStart *int64 `json:"nextPageStart"`
}

type pageState[T any] struct {
	acc  []T
	next int64
	done bool
}

// advance folds one page into the state. isLastPage=true ends the listing
// even when a nextPageStart is also present; a missing or non-advancing
// nextPageStart ends it as well.
func (s pageState[T]) advance(p page[T]) pageState[T] {
	acc := append(s.acc, p.Values...)
	if p.IsLastPage != nil && *p.IsLastPage {
		return pageState[T]{acc: acc, next: s.next, done: true}
	}
	if p.NextPageStart == nil || *p.NextPageStart <= s.next {
		return pageState[T]{acc: acc, next: s.next, done: true}
	}
	return pageState[T]{acc: acc, next: *p.NextPageStart}
}

type pageFetcher[T any] func(ctx context.Context, start int64) (page[T], error)

// fetchAll requests pages sequentially from start 0. Any failing page fails
// the whole listing.
func fetchAll[T any](ctx context.Context, fetch pageFetcher[T]) ([]T, error) {
	state := pageState[T]{}
	for !state.done {
		p, err := fetch(ctx, state.next)
		if err != nil {
			return nil, err
		}
		state = state.advance(p)
	}
	return state.acc, nil
}
