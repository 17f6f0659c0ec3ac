package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/niksmo/vip-store/internal/core/port"
)

const (
	PublicPrefix = "/uploads"

	sniffLen = 3072
)

var _ port.ScreenshotSaver = (*LocalStore)(nil)

var allowedTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// LocalStore keeps uploaded payment screenshots in a directory.
type LocalStore struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

func NewLocalStore(dir string, maxBytes int64) (LocalStore, error) {
	const op = "uploads.NewLocalStore"

	if maxBytes <= 0 {
		return LocalStore{}, fmt.Errorf("%s: max bytes must be positive", op)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return LocalStore{}, fmt.Errorf("%s: %w", op, err)
	}
	return LocalStore{dir: dir, maxBytes: maxBytes, now: time.Now}, nil
}

func (s LocalStore) Dir() string {
	return s.dir
}

// SaveScreenshot stores the image read from r and returns its public path.
// The client filename is only logged.
func (s LocalStore) SaveScreenshot(
	ctx context.Context, filename string, r io.Reader,
) (string, error) {
	const op = "LocalStore.SaveScreenshot"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	head = head[:n]
	if n == 0 {
		return "", fmt.Errorf("%s: %w", op,
			domain.NewValidationError("screenshot", "is empty"))
	}

	mtype := mimetype.Detect(head)
	if !mimetype.EqualsAny(mtype.String(), allowedTypes...) {
		return "", fmt.Errorf("%s: %w", op,
			domain.NewValidationError("screenshot", "must be a png, jpeg, gif or webp image"))
	}

	name := strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + uuid.NewString() + mtype.Extension()
	fullPath := filepath.Join(s.dir, name)

	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	src := io.MultiReader(bytes.NewReader(head), r)
	written, copyErr := io.Copy(f, io.LimitReader(src, s.maxBytes+1))
	closeErr := f.Close()

	if err := errors.Join(copyErr, closeErr); err != nil {
		s.remove(fullPath)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if written > s.maxBytes {
		s.remove(fullPath)
		return "", fmt.Errorf("%s: %w", op,
			domain.NewValidationError("screenshot", "is too large"))
	}

	log.Info("screenshot stored", "name", name, "clientName", filename, "bytes", written)
	return path.Join(PublicPrefix, name), nil
}

func (s LocalStore) remove(p string) {
	if err := os.Remove(p); err != nil {
		slog.Error("failed to remove partial upload", "path", p, "err", err)
	}
}

// RemoveScreenshot deletes a file stored by SaveScreenshot. A file that is
// already gone is not an error.
func (s LocalStore) RemoveScreenshot(ctx context.Context, ref string) error {
	const op = "LocalStore.RemoveScreenshot"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	name, ok := strings.CutPrefix(ref, PublicPrefix+"/")
	if !ok || name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%s: %w", op,
			domain.NewValidationError("screenshot", "is not a stored upload"))
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
