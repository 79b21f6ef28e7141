package domain

import (
	"path/filepath"
	"slices"
	"strings"
)

const (
	DefaultMaxUploadBytes = 10 << 20
	DefaultMaxUploadFiles = 5
)

// UploadPolicy constrains accepted uploads.
type UploadPolicy struct {
	MaxFileBytes      int64    `json:"-"`
	MaxFiles          int      `json:"max_files_per_request"`
	AllowedExtensions []string `json:"allowed_extensions"`
}

// DefaultUploadPolicy accepts common images, documents and text.
func DefaultUploadPolicy() UploadPolicy {
	return UploadPolicy{
		MaxFileBytes:      DefaultMaxUploadBytes,
		MaxFiles:          DefaultMaxUploadFiles,
		AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".pdf", ".txt", ".docx", ".xlsx"},
	}
}

// MaxFileMB is the per-file limit in whole mebibytes.
func (p UploadPolicy) MaxFileMB() int64 {
	return p.MaxFileBytes >> 20
}

// Extension returns the lower-cased extension of filename when it is allowed.
func (p UploadPolicy) Extension(filename string) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", NewValidationError("filename", "is required")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || !slices.Contains(p.AllowedExtensions, ext) {
		return "", ErrFileType
	}
	return ext, nil
}

// CheckSize rejects files over the per-file limit.
func (p UploadPolicy) CheckSize(size int64) error {
	if p.MaxFileBytes > 0 && size > p.MaxFileBytes {
		return ErrFileTooLarge
	}
	return nil
}

// CheckCount rejects requests carrying more files than allowed.
func (p UploadPolicy) CheckCount(n int) error {
	if p.MaxFiles > 0 && n > p.MaxFiles {
		return ErrTooManyFiles
	}
	return nil
}
