package filestorage

import (
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
)

// Key prefixes per resource kind
const (
	PrefixLibrary     = "library"
	PrefixPolicies    = "policies"
	PrefixTemplates   = "templates"
	PrefixMarket      = "market"
	PrefixNews        = "news"
	PrefixWorkSystems = "work-systems"
	PrefixGeneral     = "general"
)

// NewKey builds "<prefix>/<uuid><ext>" for an uploaded filename.
func NewKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.New().String() + ext
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// NormalizeKey turns a requested file path into a storage key. It accepts a bare key,
// a path with a leading slash or "uploads/" segment, or a full URL starting with one of
// publicURLs. Paths that try to leave the bucket are rejected.
func NormalizeKey(raw string, publicURLs ...string) (string, error) {
	key := strings.TrimSpace(raw)
	for _, base := range publicURLs {
		base = strings.TrimRight(base, "/")
		if base != "" && strings.HasPrefix(key, base+"/") {
			key = strings.TrimPrefix(key, base)
			break
		}
	}

	key = strings.TrimLeft(key, "/")
	key = strings.TrimPrefix(key, "uploads/")

	if key == "" || strings.Contains(key, "\\") {
		return "", apperrors.ErrInvalidFileKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." || part == "" {
			return "", apperrors.ErrInvalidFileKey
		}
	}
	return path.Clean(key), nil
}

// DetectContentType prefers the client supplied type and sniffs the first bytes otherwise.
func DetectContentType(fileHeader *multipart.FileHeader, file multipart.File) string {
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}

	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	_, _ = file.Seek(0, io.SeekStart)
	return http.DetectContentType(buf[:n])
}
