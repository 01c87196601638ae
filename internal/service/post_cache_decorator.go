package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"tagfeed/internal/cache"
	"tagfeed/internal/metrics"
	"tagfeed/internal/models"
)

// PostListCache is the listing cache consulted by the decorator.
type PostListCache interface {
	Generation(ctx context.Context) (int64, error)
	GetPage(ctx context.Context, generation int64, query string) (*models.PostPage, error)
	SetPage(ctx context.Context, generation int64, query string, page *models.PostPage) error
	Invalidate(ctx context.Context) error
}

// PostServiceCacheDecorator serves repeated listings from the cache. Cache
// failures are logged and never fail the request.
type PostServiceCacheDecorator struct {
	service PostService
	cache   PostListCache
	metrics metrics.Provider
	log     *slog.Logger
}

func NewPostServiceCacheDecorator(service PostService, listCache PostListCache, m metrics.Provider, log *slog.Logger) PostService {
	return &PostServiceCacheDecorator{
		service: service,
		cache:   listCache,
		metrics: m,
		log:     log,
	}
}

func (d *PostServiceCacheDecorator) CreatePost(ctx context.Context, req CreatePostInput) (*models.Post, error) {
	post, err := d.service.CreatePost(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := d.cache.Invalidate(ctx); err != nil {
		d.log.Warn("Failed to invalidate post list cache",
			slog.String("post_id", post.PostID),
			slog.String("error", err.Error()))
	}

	return post, nil
}

func (d *PostServiceCacheDecorator) ListPosts(ctx context.Context, query ListPostsQuery) (*models.PostPage, error) {
	generation, err := d.cache.Generation(ctx)
	if err != nil {
		d.log.Warn("Failed to read post list cache generation", slog.String("error", err.Error()))
		return d.service.ListPosts(ctx, query)
	}

	key := query.cacheKey()

	page, err := d.cache.GetPage(ctx, generation, key)
	if err == nil {
		d.metrics.IncrementCacheHits()
		return page, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		d.log.Warn("Failed to read post list cache", slog.String("error", err.Error()))
	}
	d.metrics.IncrementCacheMisses()

	page, err = d.service.ListPosts(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := d.cache.SetPage(ctx, generation, key, page); err != nil {
		d.log.Warn("Failed to cache post list page", slog.String("error", err.Error()))
	}

	return page, nil
}

func (q ListPostsQuery) cacheKey() string {
	values := url.Values{}
	values.Set("searchText", q.SearchText)
	values.Set("startDate", q.StartDate)
	values.Set("endDate", q.EndDate)
	values.Set("tags", q.Tags)
	values.Set("page", q.Page)
	values.Set("limit", q.Limit)
	return values.Encode()
}
