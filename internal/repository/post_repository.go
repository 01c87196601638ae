package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"tagfeed/internal/models"
)

const postColumns = `id, user_id, post_name, description, tags, image_path, upload_timestamp`

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	query := `
        INSERT INTO posts
        (id, user_id, post_name, description, tags, image_path, upload_timestamp)
        VALUES
        (:id, :user_id, :post_name, :description, :tags, :image_path, :upload_timestamp)
    `

	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}
	if post.Tags == nil {
		post.Tags = pq.StringArray{}
	}
	if post.UploadTimestamp.IsZero() {
		post.UploadTimestamp = time.Now().UTC()
	}

	_, err := r.DB.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

func buildPostWhere(filters models.PostFilters) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if filters.SearchText != "" {
		pattern := "%" + escapeLike(filters.SearchText) + "%"
		clauses = append(clauses, "(post_name ILIKE ? OR description ILIKE ?)")
		args = append(args, pattern, pattern)
	}
	if filters.UploadedFrom != nil {
		clauses = append(clauses, "upload_timestamp >= ?")
		args = append(args, *filters.UploadedFrom)
	}
	if filters.UploadedBefore != nil {
		clauses = append(clauses, "upload_timestamp < ?")
		args = append(args, *filters.UploadedBefore)
	}
	if len(filters.Tags) > 0 {
		clauses = append(clauses, "tags && ?")
		args = append(args, pq.StringArray(filters.Tags))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List returns one page of posts matching filters, newest first, together
// with the number of posts matching filters overall.
func (r *PostRepositoryImpl) List(ctx context.Context, filters models.PostFilters) ([]models.Post, int, error) {
	where, args := buildPostWhere(filters)

	var total int
	countQuery := r.DB.Rebind("SELECT COUNT(*) FROM posts" + where)
	if err := r.DB.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	posts := []models.Post{}
	if total == 0 || filters.Offset >= total {
		return posts, total, nil
	}

	pageQuery := r.DB.Rebind("SELECT " + postColumns + " FROM posts" + where +
		" ORDER BY upload_timestamp DESC, seq DESC LIMIT ? OFFSET ?")
	pageArgs := append(args, filters.Limit, filters.Offset)

	if err := r.DB.SelectContext(ctx, &posts, pageQuery, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	for i := range posts {
		if posts[i].Tags == nil {
			posts[i].Tags = pq.StringArray{}
		}
	}

	return posts, total, nil
}
