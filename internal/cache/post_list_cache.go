package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"tagfeed/internal/models"
)

const (
	postListKeyPrefix     = "posts:list:"
	postListGenerationKey = "posts:list:generation"
)

// PostListCache stores listing pages under a generation counter. Bumping the
// generation makes every previously stored page unreachable; they expire by TTL.
type PostListCache struct {
	client *Client
	ttl    time.Duration
	log    *slog.Logger
}

func NewPostListCache(client *Client, ttl time.Duration, log *slog.Logger) *PostListCache {
	return &PostListCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func (p *PostListCache) Generation(ctx context.Context) (int64, error) {
	return p.client.GetInt64(ctx, postListGenerationKey)
}

func (p *PostListCache) GetPage(ctx context.Context, generation int64, query string) (*models.PostPage, error) {
	var page models.PostPage
	if err := p.client.Get(ctx, pageKey(generation, query), &page); err != nil {
		return nil, err
	}
	if page.Posts == nil {
		page.Posts = []models.Post{}
	}
	return &page, nil
}

func (p *PostListCache) SetPage(ctx context.Context, generation int64, query string, page *models.PostPage) error {
	if page == nil {
		return fmt.Errorf("page cannot be nil")
	}
	return p.client.Set(ctx, pageKey(generation, query), page, p.ttl)
}

func (p *PostListCache) Invalidate(ctx context.Context) error {
	generation, err := p.client.Incr(ctx, postListGenerationKey)
	if err != nil {
		return err
	}

	p.log.Debug("Post list cache invalidated", slog.Int64("generation", generation))
	return nil
}

func pageKey(generation int64, query string) string {
	return postListKeyPrefix + strconv.FormatInt(generation, 10) + ":" + query
}
