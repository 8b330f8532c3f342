// Package cache maps post responses onto the shared key/value store. All keys
// live in two namespaces: "post:{id}" for single posts and "posts:{page}:{limit}"
// for listing pages. Any write to a post wipes the whole listing namespace,
// trading cache churn for never serving a stale page.
package cache

import (
	"context"
	"fmt"
	"time"

	pkgcache "github.com/mkravets/socialnet/pkg/cache"
)

const listingPattern = "posts:*"

type Manager struct {
	Store      pkgcache.Store
	ItemTTL    time.Duration
	ListingTTL time.Duration
}

func ItemKey(id string) string {
	return "post:" + id
}

func ListingKey(page, limit int) string {
	return fmt.Sprintf("posts:%d:%d", page, limit)
}

func (m *Manager) GetItem(ctx context.Context, id string) ([]byte, error) {
	return m.Store.Get(ctx, ItemKey(id))
}

func (m *Manager) SetItem(ctx context.Context, id string, value []byte) error {
	return m.Store.Set(ctx, ItemKey(id), value, m.ItemTTL)
}

func (m *Manager) GetListing(ctx context.Context, page, limit int) ([]byte, error) {
	return m.Store.Get(ctx, ListingKey(page, limit))
}

func (m *Manager) SetListing(ctx context.Context, page, limit int, value []byte) error {
	return m.Store.Set(ctx, ListingKey(page, limit), value, m.ListingTTL)
}

// InvalidateItem drops one post and every listing page that may contain it.
func (m *Manager) InvalidateItem(ctx context.Context, id string) error {
	if err := m.Store.Delete(ctx, ItemKey(id)); err != nil {
		return err
	}
	return m.Store.DeletePattern(ctx, listingPattern)
}

func (m *Manager) InvalidateListings(ctx context.Context) error {
	return m.Store.DeletePattern(ctx, listingPattern)
}
