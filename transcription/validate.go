package transcription

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/kbukum/scribe/errors"
)

// DefaultMaxFileSize is the largest accepted upload, inclusive.
const DefaultMaxFileSize int64 = 100 * 1024 * 1024

var allowedMIMETypes = []string{
	"audio/wav", "audio/mp3", "audio/mpeg", "audio/mp4",
	"audio/x-m4a", "audio/aac", "audio/ogg", "audio/wma",
	"video/mp4", "video/avi", "video/mov", "video/x-flv",
}

var allowedExtensions = []string{
	"wav", "mp3", "mp4", "avi", "mov", "flv", "m4a", "aac", "ogg", "wma",
}

// AllowedMIMETypes returns the accepted media types.
func AllowedMIMETypes() []string { return slices.Clone(allowedMIMETypes) }

// AllowedExtensions returns the accepted file extensions without dots.
func AllowedExtensions() []string { return slices.Clone(allowedExtensions) }

// IsValidAudioFile reports whether file has an accepted MIME type or,
// failing that, an accepted extension (case-insensitive).
func IsValidAudioFile(file AudioFile) bool {
	if slices.Contains(allowedMIMETypes, normalizeMIME(file.MIMEType)) {
		return true
	}
	ext := extension(file.Name)
	return ext != "" && slices.Contains(allowedExtensions, ext)
}

// ValidateAudioFile runs the pre-flight checks in order: format first, then
// size against maxSize. It returns nil when the file may be uploaded.
func ValidateAudioFile(file AudioFile, maxSize int64) *errors.AppError {
	if !IsValidAudioFile(file) {
		return errors.UnsupportedFormat(file.Name, file.MIMEType)
	}
	if file.Size > maxSize {
		return errors.FileTooLarge(file.Size, maxSize)
	}
	return nil
}

// normalizeMIME lowercases a media type and drops any parameters.
func normalizeMIME(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// extension returns the lowercased text after the last dot of the base name.
func extension(name string) string {
	ext := filepath.Ext(filepath.Base(name))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
