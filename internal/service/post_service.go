package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"tagfeed/internal/apperror"
	"tagfeed/internal/config"
	"tagfeed/internal/metrics"
	"tagfeed/internal/models"
	"tagfeed/internal/repository"
	"tagfeed/internal/storage"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	dateLayout = "2006-01-02"

	// sniffLen is how much of an upload is inspected to detect its format.
	sniffLen = 3072
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

var allowedImageTypes = []string{"image/jpeg", "image/png"}

type ImageUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type CreatePostInput struct {
	CallerID    string       `json:"-"`
	OwnerID     string       `json:"userId" validate:"required"`
	PostName    string       `json:"postName" validate:"required"`
	Description string       `json:"description" validate:"required"`
	Tags        []string     `json:"tags"`
	Image       *ImageUpload `json:"-" validate:"-"`
}

// ListPostsQuery carries the raw query string values of a listing request.
type ListPostsQuery struct {
	SearchText string
	StartDate  string
	EndDate    string
	Tags       string
	Page       string
	Limit      string
}

type PostService interface {
	CreatePost(ctx context.Context, req CreatePostInput) (*models.Post, error)
	ListPosts(ctx context.Context, query ListPostsQuery) (*models.PostPage, error)
}

type postService struct {
	postRepo  repository.PostRepository
	storage   storage.Storage
	cfg       *config.Config
	validator *Validator
	metrics   metrics.Provider
	log       *slog.Logger
}

func NewPostService(postRepo repository.PostRepository, store storage.Storage, cfg *config.Config, m metrics.Provider, log *slog.Logger) PostService {
	return &postService{
		postRepo:  postRepo,
		storage:   store,
		cfg:       cfg,
		validator: NewValidator(),
		metrics:   m,
		log:       log,
	}
}

func (p *postService) CreatePost(ctx context.Context, req CreatePostInput) (post *models.Post, err error) {
	defer func() { p.metrics.IncrementPostOperations("create", err == nil) }()

	req.OwnerID = strings.TrimSpace(req.OwnerID)
	req.PostName = strings.TrimSpace(req.PostName)
	req.Description = strings.TrimSpace(req.Description)

	if err := CheckOwnership(req.CallerID, req.OwnerID); err != nil {
		return nil, err
	}

	if err := p.validator.Struct(req); err != nil {
		return nil, err
	}

	post = &models.Post{
		UserID:      req.OwnerID,
		PostName:    req.PostName,
		Description: req.Description,
		Tags:        NormalizeTags(req.Tags),
	}

	if req.Image != nil {
		imagePath, err := p.storeImage(ctx, req.Image)
		if err != nil {
			return nil, err
		}
		post.ImagePath = &imagePath
	}

	if err := p.postRepo.Create(ctx, post); err != nil {
		if post.ImagePath != nil {
			p.log.Warn("post insert failed after image upload, image left in storage",
				slog.String("image_path", *post.ImagePath))
		}
		return nil, apperror.Internal(fmt.Errorf("create post: %w", err))
	}

	p.log.Info("post created",
		slog.String("post_id", post.PostID),
		slog.String("user_id", post.UserID),
		slog.Int("tags", len(post.Tags)))

	return post, nil
}

// CheckOwnership rejects a post addressed to an account other than the caller.
// An empty owner is left to field validation.
func CheckOwnership(callerID, ownerID string) error {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID != "" && ownerID != callerID {
		return apperror.Authorization("You can only create posts for your own account")
	}
	return nil
}

// storeImage checks size, extension and content, then saves the image under a
// fresh name and returns its public path.
func (p *postService) storeImage(ctx context.Context, img *ImageUpload) (string, error) {
	if img.Size > p.cfg.MaxUploadSize {
		return "", apperror.Upload(fmt.Sprintf("Image must not exceed %s", humanize.IBytes(uint64(p.cfg.MaxUploadSize))))
	}

	ext := strings.ToLower(filepath.Ext(img.Filename))
	if !allowedImageExtensions[ext] {
		return "", apperror.Upload("Only .jpg, .jpeg and .png images are allowed")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(img.Content, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", apperror.Internal(fmt.Errorf("read image: %w", err))
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	if !mimetype.EqualsAny(detected.String(), allowedImageTypes...) {
		return "", apperror.Upload("Image content must be JPEG or PNG")
	}

	name := uuid.New().String() + ext
	content := io.MultiReader(bytes.NewReader(head), img.Content)

	if err := p.storage.Save(ctx, name, content, img.Size, detected.String()); err != nil {
		return "", apperror.Internal(fmt.Errorf("store image: %w", err))
	}

	return storage.PublicPath(name), nil
}

func (p *postService) ListPosts(ctx context.Context, query ListPostsQuery) (page *models.PostPage, err error) {
	defer func() { p.metrics.IncrementPostOperations("list", err == nil) }()

	filters, pageNumber, err := ParseListQuery(query)
	if err != nil {
		return nil, err
	}

	posts, total, err := p.postRepo.List(ctx, filters)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("list posts: %w", err))
	}
	if posts == nil {
		posts = []models.Post{}
	}

	return &models.PostPage{
		Posts: posts,
		Total: total,
		Page:  pageNumber,
		Pages: int(math.Ceil(float64(total) / float64(filters.Limit))),
		Limit: filters.Limit,
	}, nil
}

// ParseListQuery validates raw listing parameters, collecting every problem
// into one validation error.
func ParseListQuery(query ListPostsQuery) (models.PostFilters, int, error) {
	var fields []apperror.FieldError

	page, ok := parseBoundedInt(query.Page, DefaultPage, 1, math.MaxInt32)
	if !ok {
		fields = append(fields, apperror.FieldError{Field: "page", Message: "page must be a positive integer"})
	}

	limit, ok := parseBoundedInt(query.Limit, DefaultLimit, 1, MaxLimit)
	if !ok {
		fields = append(fields, apperror.FieldError{
			Field:   "limit",
			Message: fmt.Sprintf("limit must be an integer between 1 and %d", MaxLimit),
		})
	}

	filters := models.PostFilters{
		SearchText: strings.TrimSpace(query.SearchText),
		Tags:       NormalizeTags([]string{query.Tags}),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}

	var start, end time.Time
	var endIsDate bool

	if raw := strings.TrimSpace(query.StartDate); raw != "" {
		t, _, err := parseDate(raw)
		if err != nil {
			fields = append(fields, apperror.FieldError{Field: "startDate", Message: "startDate must be YYYY-MM-DD or RFC 3339"})
		} else {
			start = t
			filters.UploadedFrom = &start
		}
	}

	if raw := strings.TrimSpace(query.EndDate); raw != "" {
		t, dateOnly, err := parseDate(raw)
		if err != nil {
			fields = append(fields, apperror.FieldError{Field: "endDate", Message: "endDate must be YYYY-MM-DD or RFC 3339"})
		} else {
			end, endIsDate = t, dateOnly
			before := exclusiveUpperBound(end, endIsDate)
			filters.UploadedBefore = &before
		}
	}

	if filters.UploadedFrom != nil && filters.UploadedBefore != nil {
		if !start.Before(*filters.UploadedBefore) {
			fields = append(fields, apperror.FieldError{Field: "startDate", Message: "startDate must not be after endDate"})
		}
	}

	if len(fields) > 0 {
		return models.PostFilters{}, 0, apperror.Validation("Invalid query parameters", fields...)
	}

	return filters, page, nil
}

func parseBoundedInt(raw string, def, min, max int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return def, false
	}
	return n, true
}

func parseDate(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, true, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), false, nil
}

// exclusiveUpperBound turns an inclusive end date into a "<" bound. A bare
// date covers the whole day.
func exclusiveUpperBound(end time.Time, dateOnly bool) time.Time {
	if dateOnly {
		return end.AddDate(0, 0, 1)
	}
	return end.Truncate(time.Microsecond).Add(time.Microsecond)
}

// NormalizeTags splits comma separated values, trims them, drops empties and
// removes duplicates while keeping first-seen order.
func NormalizeTags(values []string) []string {
	tags := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))

	for _, value := range values {
		for _, tag := range strings.Split(value, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}

	return tags
}
