package editor

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/lifecycle"
	"github.com/gabriel-vasile/mimetype"

	"github.com/aretw0/pinboard/pkg/note"
)

// UploadImage reads an image file in the background and stores it as a data
// URL in info.url. The returned channel yields the outcome once.
//
// Reads are not cancelled or deduplicated: each completion writes into the
// note being edited at that moment, so the last one to finish wins. A
// completion that finds a non-image note drops its result.
func (e *Editor) UploadImage(ctx context.Context, name string, r io.Reader) <-chan error {
	done := make(chan error, 1)

	e.mu.Lock()
	if e.variant != note.TypeImage {
		e.mu.Unlock()
		done <- ErrWrongVariant
		close(done)
		return done
	}
	e.fileName = name
	e.mu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("image read panic: %v", rec)
			}
			done <- err
			close(done)
		}()
		return e.readImage(name, r)
	}, lifecycle.WithErrorHandler(func(err error) {
		e.logger.Error("image upload failed", "file", name, "error", err)
	}))

	return done
}

// FileName returns the name of the last selected image file.
func (e *Editor) FileName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fileName
}

func (e *Editor) readImage(name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	url := DataURL(data)

	e.mu.Lock()
	defer e.mu.Unlock()
	if img, ok := e.note.Info.(*note.ImageInfo); ok {
		img.URL = url
	}
	return nil
}

// DataURL encodes data as a base64 data URL with its detected media type.
func DataURL(data []byte) string {
	mediaType := mimetype.Detect(data).String()
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
