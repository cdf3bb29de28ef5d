package stash

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func int64Ptr(v int64) *int64 { return &v }

func TestPageStateAdvance(t *testing.T) {
	tests := []struct {
		name     string
		page     page[int]
		wantDone bool
		wantNext int64
	}{
		{name: "last page", page: page[int]{Values: []int{1}, IsLastPage: boolPtr(true)}, wantDone: true},
		{name: "last page wins over next start", page: page[int]{IsLastPage: boolPtr(true), NextPageStart: int64Ptr(25)}, wantDone: true},
		{name: "more pages", page: page[int]{IsLastPage: boolPtr(false), NextPageStart: int64Ptr(25)}, wantNext: 25},
		{name: "flag absent with next start", page: page[int]{NextPageStart: int64Ptr(25)}, wantNext: 25},
		{name: "flag absent without next start", page: page[int]{}, wantDone: true},
		{name: "not last without next start", page: page[int]{IsLastPage: boolPtr(false)}, wantDone: true},
		{name: "cursor does not advance", page: page[int]{IsLastPage: boolPtr(false), NextPageStart: int64Ptr(0)}, wantDone: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pageState[int]{}.advance(tt.page)
			assert.Equal(t, tt.wantDone, got.done)
			if !tt.wantDone {
				assert.Equal(t, tt.wantNext, got.next)
			}
		})
	}
}

func TestFetchAllConcatenatesInOrder(t *testing.T) {
	pages := map[int64]page[string]{
		0: {Values: []string{"a", "b"}, IsLastPage: boolPtr(false), NextPageStart: int64Ptr(2)},
		2: {Values: []string{"c"}, IsLastPage: boolPtr(false), NextPageStart: int64Ptr(3)},
		3: {Values: []string{"d"}, IsLastPage: boolPtr(true)},
	}
	var starts []int64

	values, err := fetchAll(context.Background(), func(_ context.Context, start int64) (page[string], error) {
		starts = append(starts, start)
		return pages[start], nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, values)
	assert.Equal(t, []int64{0, 2, 3}, starts)
}

func TestFetchAllStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	values, err := fetchAll(context.Background(), func(_ context.Context, start int64) (page[int], error) {
		calls++
		if start == 0 {
			return page[int]{Values: []int{1}, NextPageStart: int64Ptr(1)}, nil
		}
		return page[int]{}, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, values)
	assert.Equal(t, 2, calls)
}
