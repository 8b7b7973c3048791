package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hubtav/tavlist/pkg/logutils"
)

// LocalPrefix is the URL prefix the HTTP server uses to serve a Local store.
const LocalPrefix = "/files"

// Local keeps objects on disk under dir/<bucket>/<path>.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) *Local {
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Local) Dir() string { return l.dir }

func (l *Local) Upload(_ context.Context, bucket, objectPath string, data []byte, _ string) (string, error) {
	clean, err := cleanObjectPath(bucket, objectPath)
	if err != nil {
		return "", err
	}
	target := filepath.Join(l.dir, bucket, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}
	logutils.Log.Debugf("stored %s/%s (%d bytes)", bucket, clean, len(data))
	return fmt.Sprintf("%s%s/%s/%s", l.baseURL, LocalPrefix, bucket, clean), nil
}

func (l *Local) Remove(_ context.Context, bucket, objectPath string) error {
	clean, err := cleanObjectPath(bucket, objectPath)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(l.dir, bucket, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
