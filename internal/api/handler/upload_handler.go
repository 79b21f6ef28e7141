package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/demoserver/backend/internal/api/metrics"
	"github.com/demoserver/backend/internal/core/domain"
	"github.com/demoserver/backend/internal/core/ports"
)

// FilesURLPrefix is where stored uploads are served from.
const FilesURLPrefix = "/files/"

// UploadHandler accepts multipart uploads and stores them.
type UploadHandler struct {
	storage ports.FileStorage
	policy  domain.UploadPolicy
	log     zerolog.Logger
	now     func() time.Time
}

func NewUploadHandler(storage ports.FileStorage, policy domain.UploadPolicy, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{storage: storage, policy: policy, log: log, now: time.Now}
}

// Single handles POST /api/v1/upload/single with a "file" form field.
func (h *UploadHandler) Single(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	resp, err := h.store(c, fh)
	if err != nil {
		if errors.Is(err, domain.ErrFileRejected) {
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
			return echo.NewHTTPError(http.StatusBadRequest, rejectionMessage(err, h.policy)).SetInternal(err)
		}
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Multiple handles POST /api/v1/upload/multiple with repeated "files" fields.
// A rejected file is reported in its slot of the response; it does not fail
// the other files.
func (h *UploadHandler) Multiple(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "files are required")
	}
	if err := h.policy.CheckCount(len(files)); err != nil {
		msg := fmt.Sprintf("Maximum %d files allowed per request", h.policy.MaxFiles)
		return echo.NewHTTPError(http.StatusBadRequest, msg).SetInternal(err)
	}

	out := make([]uploadResponse, 0, len(files))
	for _, fh := range files {
		resp, err := h.store(c, fh)
		if err != nil {
			if !errors.Is(err, domain.ErrFileRejected) && !errors.Is(err, domain.ErrValidation) {
				return err
			}
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
			out = append(out, uploadResponse{
				Message: fmt.Sprintf("Error uploading %s: %s", fh.Filename, rejectionMessage(err, h.policy)),
				FileInfo: fileInfo{
					Filename:    fh.Filename,
					ContentType: contentType(fh),
					Size:        fh.Size,
					UploadedAt:  h.now().UTC(),
				},
			})
			continue
		}
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, out)
}

// Info handles GET /api/v1/upload/info.
func (h *UploadHandler) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, uploadInfoResponse{
		MaxFileSizeMB:      h.policy.MaxFileMB(),
		AllowedExtensions:  h.policy.AllowedExtensions,
		MaxFilesPerRequest: h.policy.MaxFiles,
	})
}

func (h *UploadHandler) store(c echo.Context, fh *multipart.FileHeader) (uploadResponse, error) {
	ext, err := h.policy.Extension(fh.Filename)
	if err != nil {
		return uploadResponse{}, err
	}
	if err := h.policy.CheckSize(fh.Size); err != nil {
		return uploadResponse{}, err
	}

	src, err := fh.Open()
	if err != nil {
		return uploadResponse{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	stored, err := h.storage.Save(c.Request().Context(), ext, src, h.policy.MaxFileBytes)
	if err != nil {
		return uploadResponse{}, err
	}

	metrics.UploadsTotal.WithLabelValues("stored").Inc()
	metrics.UploadBytes.Observe(float64(stored.Size))
	h.log.Info().Str("file", stored.Name).Int64("size", stored.Size).Msg("upload stored")

	return uploadResponse{
		Message: "File uploaded successfully",
		FileInfo: fileInfo{
			Filename:    fh.Filename,
			ContentType: contentType(fh),
			Size:        stored.Size,
			UploadedAt:  h.now().UTC(),
		},
		FileURL: FilesURLPrefix + stored.Name,
	}, nil
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get(echo.HeaderContentType); ct != "" {
		return ct
	}
	return echo.MIMEOctetStream
}

func rejectionMessage(err error, policy domain.UploadPolicy) string {
	switch {
	case errors.Is(err, domain.ErrFileType):
		return "File type not allowed. Allowed types: " + strings.Join(policy.AllowedExtensions, ", ")
	case errors.Is(err, domain.ErrFileTooLarge):
		return fmt.Sprintf("File too large. Maximum size: %dMB", policy.MaxFileMB())
	default:
		return err.Error()
	}
}
