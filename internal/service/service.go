package service

import (
	"log/slog"

	"tagfeed/internal/config"
	"tagfeed/internal/metrics"
	"tagfeed/internal/repository"
	"tagfeed/internal/storage"
)

type Service struct {
	User   UserService
	Post   PostService
	Auth   AuthService
	Tables TablesService
}

// NewService wires the services. listCache may be nil, in which case
// listings always hit the database.
func NewService(rep *repository.Repository, cfg *config.Config, store storage.Storage, listCache PostListCache, m metrics.Provider, log *slog.Logger) *Service {
	var post PostService = NewPostService(rep.Post, store, cfg, m, log)
	if listCache != nil {
		post = NewPostServiceCacheDecorator(post, listCache, m, log)
	}

	return &Service{
		User:   NewUserService(rep.User),
		Post:   post,
		Auth:   NewAuthService(rep.User, cfg, m, log),
		Tables: NewTablesService(rep.Tables),
	}
}
