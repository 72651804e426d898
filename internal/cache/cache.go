// Package cache holds computed transaction pages keyed by (page, size).
//
// Every cache carries a generation number that Clear advances. Put only stores a page
// computed under the current generation, so a read that started before a write cannot
// repopulate the cache with pre-write data once that write has cleared it.
package cache

import (
	"context"
	"fmt"

	"bank_transactions/internal/domain"
)

type Key struct {
	Page int
	Size int
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%d", k.Page, k.Size)
}

type PageCache interface {
	Get(ctx context.Context, key Key) (domain.Page, bool)
	Put(ctx context.Context, key Key, page domain.Page, generation uint64)
	Clear(ctx context.Context) error
	Generation(ctx context.Context) uint64
}
