package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"tagfeed/internal/models"
	"tagfeed/internal/storage"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) List(ctx context.Context, filters models.PostFilters) ([]models.Post, int, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Post), args.Int(1), args.Error(2)
}

type MockTablesRepository struct {
	mock.Mock
}

func (m *MockTablesRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTablesRepository) CountTablesDB(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockStorage records saved objects and drains the content it is given.
type MockStorage struct {
	mock.Mock
	saved map[string][]byte
}

func (m *MockStorage) Save(ctx context.Context, name string, content io.Reader, size int64, contentType string) error {
	data, _ := io.ReadAll(content)
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[name] = data

	args := m.Called(ctx, name, size, contentType)
	return args.Error(0)
}

func (m *MockStorage) Open(ctx context.Context, name string) (storage.Object, storage.ObjectInfo, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.ObjectInfo), args.Error(2)
	}
	return args.Get(0).(storage.Object), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

type MockPostListCache struct {
	mock.Mock
}

func (m *MockPostListCache) Generation(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostListCache) GetPage(ctx context.Context, generation int64, query string) (*models.PostPage, error) {
	args := m.Called(ctx, generation, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostPage), args.Error(1)
}

func (m *MockPostListCache) SetPage(ctx context.Context, generation int64, query string, page *models.PostPage) error {
	args := m.Called(ctx, generation, query, page)
	return args.Error(0)
}

func (m *MockPostListCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(ctx context.Context, req CreatePostInput) (*models.Post, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) ListPosts(ctx context.Context, query ListPostsQuery) (*models.PostPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostPage), args.Error(1)
}
