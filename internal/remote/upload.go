package remote

import (
	"fmt"
	"net/http"
	"path"
	"strings"
	"unicode"
)

// ValidateUpload checks the image type and size before any network call.
// An empty content type is sniffed from the data.
func ValidateUpload(upload Upload, maxSize int64) (Upload, error) {
	if len(upload.Data) == 0 {
		return upload, ErrInvalidImage
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	if int64(len(upload.Data)) > maxSize {
		return upload, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(upload.Data))
	}
	contentType := strings.TrimSpace(upload.ContentType)
	if contentType == "" {
		contentType = http.DetectContentType(upload.Data)
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return upload, fmt.Errorf("%w: %s", ErrInvalidImage, contentType)
	}
	upload.ContentType = contentType
	return upload, nil
}

// objectName builds a storage-safe file name prefixed with a timestamp.
func objectName(name string, stamp int64) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	clean := strings.Trim(b.String(), "-.")
	if clean == "" {
		clean = "image"
	}
	return fmt.Sprintf("%d-%s", stamp, clean)
}
