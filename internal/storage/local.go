// Package storage keeps uploaded files (CVs, employer logos) on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Kind string

const (
	KindCV   Kind = "cv"
	KindLogo Kind = "logo"
)

var allowedExt = map[Kind]map[string]bool{
	KindCV:   {".pdf": true, ".doc": true, ".docx": true},
	KindLogo: {".png": true, ".jpg": true, ".jpeg": true, ".webp": true},
}

var (
	ErrTooLarge        = errors.New("file is too large")
	ErrUnsupportedType = errors.New("file type is not allowed")
)

// Upload is one received file.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Store saves uploads and returns a path relative to its root.
type Store interface {
	Save(kind Kind, up Upload) (string, error)
	Remove(path string) error
}

type Local struct {
	Dir     string
	MaxSize int64
}

func NewLocal(dir string, maxSize int64) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{Dir: dir, MaxSize: maxSize}, nil
}

func (l *Local) Save(kind Kind, up Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if !allowedExt[kind][ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	if l.MaxSize > 0 && up.Size > l.MaxSize {
		return "", ErrTooLarge
	}

	rel := filepath.ToSlash(filepath.Join(string(kind), uuid.NewString()+ext))
	full := filepath.Join(l.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	src := up.Content
	if l.MaxSize > 0 {
		src = io.LimitReader(up.Content, l.MaxSize+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && l.MaxSize > 0 && n > l.MaxSize {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(full)
		return "", err
	}
	return rel, nil
}

// Remove deletes a stored file. Paths outside the root are ignored.
func (l *Local) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	full := filepath.Join(l.Dir, filepath.FromSlash(rel))
	root, err := filepath.Abs(l.Dir)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
		return nil
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
