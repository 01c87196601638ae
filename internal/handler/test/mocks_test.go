package test

import (
	"bytes"
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"tagfeed/internal/models"
	"tagfeed/internal/service"
	"tagfeed/internal/storage"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req service.RegisterInput) (*service.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req service.LoginInput) (*service.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) ParseToken(tokenString string) (*service.TokenClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenClaims), args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(ctx context.Context, req service.CreatePostInput) (*models.Post, error) {
	// the image stream is only readable during the call
	if req.Image != nil {
		data, _ := io.ReadAll(req.Image.Content)
		req.Image.Content = bytes.NewReader(data)
	}
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) ListPosts(ctx context.Context, query service.ListPostsQuery) (*models.PostPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostPage), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*models.UserSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSummary), args.Error(1)
}

type MockTablesService struct {
	mock.Mock
}

func (m *MockTablesService) Check(ctx context.Context) (*service.HealthStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(*service.HealthStatus), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, name string, content io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, name, size, contentType)
	return args.Error(0)
}

func (m *MockStorage) Open(ctx context.Context, name string) (storage.Object, storage.ObjectInfo, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, storage.ObjectInfo{}, args.Error(2)
	}
	return args.Get(0).(storage.Object), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

type memoryObject struct {
	*bytes.Reader
}

func (memoryObject) Close() error { return nil }
