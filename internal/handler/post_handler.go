package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"tagfeed/internal/apperror"
	"tagfeed/internal/service"
)

const (
	// multipartSlack covers the text fields and part headers around the image.
	multipartSlack = 1 << 20
	maxFieldSize   = 64 << 10
)

// postForm is a create-post form read from the request body. The image, if
// any, is spooled to a temporary file that cleanup removes.
type postForm struct {
	values url.Values
	image  *service.ImageUpload
	file   *os.File
}

func (f *postForm) cleanup() {
	if f.file != nil {
		f.file.Close()
		os.Remove(f.file.Name())
	}
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	callerID, ok := service.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, apperror.Authentication("Authentication required"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize+multipartSlack)

	form, err := h.readPostForm(r)
	defer form.cleanup()
	if err != nil {
		// an owner mismatch read before the failure wins over payload errors
		if ownErr := service.CheckOwnership(callerID, form.values.Get("userId")); ownErr != nil {
			err = ownErr
		}
		h.writeError(w, err)
		return
	}

	req := service.CreatePostInput{
		CallerID:    callerID,
		OwnerID:     form.values.Get("userId"),
		PostName:    form.values.Get("postName"),
		Description: form.values.Get("description"),
		Tags:        append(append([]string{}, form.values["tags[]"]...), form.values["tags"]...),
		Image:       form.image,
	}

	post, err := h.PostService.CreatePost(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, "Post created successfully", post)
}

// readPostForm streams a multipart body part by part, so fields sent before
// the image are known even when the image is rejected. Other encodings fall
// back to ParseForm and carry no image.
func (h *Handlers) readPostForm(r *http.Request) (*postForm, error) {
	form := &postForm{values: url.Values{}}

	reader, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		if err := r.ParseForm(); err != nil {
			return form, h.bodyError(err)
		}
		form.values = r.PostForm
		return form, nil
	}
	if err != nil {
		return form, apperror.Validation("Invalid form body")
	}

	for {
		part, err := reader.NextPart()
		// a wrapped EOF means the body ended before the closing boundary
		if err == io.EOF {
			break
		}
		if err != nil {
			return form, h.bodyError(err)
		}

		name := part.FormName()
		switch {
		case name == "":
		case part.FileName() != "":
			if name != "image" || form.image != nil {
				break
			}
			if err := h.spoolImage(form, part); err != nil {
				part.Close()
				return form, err
			}
		default:
			value, err := io.ReadAll(io.LimitReader(part, maxFieldSize))
			if err != nil {
				part.Close()
				return form, h.bodyError(err)
			}
			form.values.Add(name, string(value))
		}
		part.Close()
	}

	return form, nil
}

// spoolImage copies the image part to a temporary file, reading at most one
// byte past the upload limit.
func (h *Handlers) spoolImage(form *postForm, part *multipart.Part) error {
	file, err := os.CreateTemp("", "tagfeed-upload-*")
	if err != nil {
		return apperror.Internal(fmt.Errorf("create upload spool: %w", err))
	}
	form.file = file

	size, err := io.Copy(file, io.LimitReader(part, h.Cfg.MaxUploadSize+1))
	if err != nil {
		return h.bodyError(err)
	}
	if size > h.Cfg.MaxUploadSize {
		return h.imageTooLarge()
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return apperror.Internal(fmt.Errorf("rewind upload spool: %w", err))
	}

	form.image = &service.ImageUpload{
		Filename: part.FileName(),
		Size:     size,
		Content:  file,
	}
	return nil
}

func (h *Handlers) imageTooLarge() error {
	return apperror.Upload(fmt.Sprintf("Image must not exceed %s", humanize.IBytes(uint64(h.Cfg.MaxUploadSize))))
}

func (h *Handlers) bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return h.imageTooLarge()
	}
	return apperror.Validation("Invalid form body")
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := h.PostService.ListPosts(r.Context(), service.ListPostsQuery{
		SearchText: query.Get("searchText"),
		StartDate:  query.Get("startDate"),
		EndDate:    query.Get("endDate"),
		Tags:       strings.Join(query["tags"], ","),
		Page:       query.Get("page"),
		Limit:      query.Get("limit"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Posts retrieved successfully", page)
}
