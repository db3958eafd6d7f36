package transcription

import (
	"fmt"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kbukum/scribe/errors"
)

// OpenFile opens path and describes it as an AudioFile. The MIME type is
// sniffed from the file header. The caller must close the returned Closer
// once the file has been transcribed.
func OpenFile(path string) (AudioFile, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return AudioFile{}, nil, errors.InvalidInput("file", err.Error()).WithCause(err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return AudioFile{}, nil, errors.InvalidInput("file", err.Error()).WithCause(err)
	}
	if info.IsDir() {
		_ = f.Close()
		return AudioFile{}, nil, errors.InvalidInput("file", fmt.Sprintf("%s is a directory", path))
	}

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		_ = f.Close()
		return AudioFile{}, nil, errors.InvalidInput("file", err.Error()).WithCause(err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return AudioFile{}, nil, errors.InvalidInput("file", err.Error()).WithCause(err)
	}

	return AudioFile{
		Name:     info.Name(),
		MIMEType: mt.String(),
		Size:     info.Size(),
		Content:  f,
	}, f, nil
}
