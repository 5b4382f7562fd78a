package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"watermark-service/internal/domain/watermark"
	apperrors "watermark-service/pkg/errors"
)

// Composer produces the composited output for one watermark application.
// The orchestrator selects an implementation once at startup and never
// branches on backend identity afterwards.
type Composer interface {
	Compose(ctx context.Context, job ComposeJob) error
}

// ComposeJob carries the file locations and validated configuration for a
// single composition. All paths live inside WorkDir, which the orchestrator
// owns and removes.
type ComposeJob struct {
	SourcePath string
	LogoPath   string
	OutputPath string
	WorkDir    string
	Config     watermark.Config
}

func (j ComposeJob) validatePaths() error {
	for _, p := range []string{j.SourcePath, j.LogoPath, j.OutputPath, j.WorkDir} {
		if err := validateWorkPath(p); err != nil {
			return err
		}
	}
	return nil
}

// validateWorkPath rejects traversal components, shell metacharacters, and
// absolute paths outside the system temp directory. Both backends run it so
// a future backend inherits the check.
func validateWorkPath(path string) error {
	if strings.Contains(path, "..") {
		return apperrors.UnsafePath(fmt.Sprintf("path contains directory traversal: %s", path))
	}

	if strings.ContainsAny(path, ";|&") {
		return apperrors.UnsafePath(fmt.Sprintf("path contains shell metacharacters: %s", path))
	}

	if filepath.IsAbs(path) {
		tmp := filepath.Clean(os.TempDir())
		if path != tmp && !strings.HasPrefix(filepath.Clean(path), tmp+string(os.PathSeparator)) {
			return apperrors.UnsafePath(fmt.Sprintf("path outside temp directory: %s", path))
		}
	}

	return nil
}
