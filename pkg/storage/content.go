package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

type contentKind struct {
	folder string
	ext    string
}

var contentTypes = map[string]contentKind{
	"image/jpeg":      {"images", ".jpg"},
	"image/png":       {"images", ".png"},
	"image/webp":      {"images", ".webp"},
	"image/gif":       {"images", ".gif"},
	"image/heic":      {"images", ".heic"},
	"video/mp4":       {"videos", ".mp4"},
	"video/quicktime": {"videos", ".mov"},
	"video/webm":      {"videos", ".webm"},
	"application/pdf": {"files", ".pdf"},
	"application/zip": {"files", ".zip"},
}

// Supported reports whether uploads of contentType are accepted.
// Parameters such as charset are ignored.
func Supported(contentType string) bool {
	_, ok := contentTypes[normalize(contentType)]
	return ok
}

func normalize(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// UploadKey reports whether key has the folder/<uuid>.ext shape that
// RandomFilename produces.
func UploadKey(key string) bool {
	folder, file, ok := strings.Cut(key, "/")
	if !ok {
		return false
	}
	ext := path.Ext(file)
	if _, err := uuid.Parse(strings.TrimSuffix(file, ext)); err != nil {
		return false
	}
	for _, kind := range contentTypes {
		if kind.folder == folder && kind.ext == ext {
			return true
		}
	}
	return false
}
