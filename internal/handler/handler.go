package handlers

import (
	"log/slog"

	"tagfeed/internal/config"
	"tagfeed/internal/service"
	"tagfeed/internal/storage"
)

type Handlers struct {
	UserService   service.UserService
	AuthService   service.AuthService
	PostService   service.PostService
	TablesService service.TablesService
	Storage       storage.Storage
	Cfg           *config.Config
	Log           *slog.Logger
}

func NewHandlers(services *service.Service, store storage.Storage, cfg *config.Config, log *slog.Logger) *Handlers {
	return &Handlers{
		UserService:   services.User,
		AuthService:   services.Auth,
		PostService:   services.Post,
		TablesService: services.Tables,
		Storage:       store,
		Cfg:           cfg,
		Log:           log,
	}
}
