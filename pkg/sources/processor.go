package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/illumination-k/kubectl-copylogs/pkg/log"
)

// Copier lists and copies files out of pods
type Copier interface {
	ListFiles(ctx context.Context, podName, container, dir string) ([]string, error)
	CopyFile(ctx context.Context, podName, container, remotePath, localPath string, forceStream bool) error
}

// Result counts what a source copied
type Result struct {
	Pods  int
	Files int
}

// Processor copies the logs of a source into per-pod directories under BaseDir
type Processor struct {
	copier   Copier
	baseDir  string
	out      io.Writer
	excluder *Excluder
}

// NewProcessor creates a new Processor. Progress lines are written to out.
func NewProcessor(copier Copier, baseDir string, out io.Writer, excluder *Excluder) *Processor {
	return &Processor{
		copier:   copier,
		baseDir:  baseDir,
		out:      out,
		excluder: excluder,
	}
}

// Process copies src's files from every matching pod, in pod order. The
// first error aborts processing; files already copied are left in place.
func (p *Processor) Process(ctx context.Context, src Source, pods []string) (Result, error) {
	var result Result

	matched := src.FilterPods(pods)
	if len(matched) == 0 {
		_, _ = fmt.Fprintf(p.out, "no %s pods found\n", src.Name)
		return result, nil
	}

	for _, podName := range matched {
		destDir := filepath.Join(p.baseDir, podName)
		if err := os.MkdirAll(destDir, 0o750); err != nil {
			return result, fmt.Errorf("failed to create %s: %w", destDir, err)
		}
		result.Pods++

		if src.LogDir != "" {
			count, err := p.copyLogDir(ctx, src, podName, destDir)
			result.Files += count
			if err != nil {
				return result, err
			}
			if count > 0 {
				_, _ = fmt.Fprintf(p.out, "copied %d log file(s) from %s -> %s\n", count, podName, destDir)
			}
		}

		if src.SingleFile != "" {
			destPath, err := p.copySingleFile(ctx, src, podName, destDir)
			if err != nil {
				return result, err
			}
			result.Files++
			_, _ = fmt.Fprintf(p.out, "copied %s from %s -> %s\n", src.SingleFile, podName, destPath)
		}
	}

	return result, nil
}

// copyLogDir mirrors src.LogDir of the pod into destDir and returns the
// number of files copied.
func (p *Processor) copyLogDir(ctx context.Context, src Source, podName, destDir string) (int, error) {
	logger := log.FromContext(ctx)

	files, err := p.copier.ListFiles(ctx, podName, src.Container, src.LogDir)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintf(p.out, "no log files found in %s for %s\n", src.LogDir, podName)
		return 0, nil
	}

	copied := 0
	for _, remotePath := range files {
		relPath, err := relativeTo(src.LogDir, remotePath)
		if err != nil {
			return copied, err
		}

		if p.excluder.ShouldExclude(relPath) {
			logger.DebugContext(ctx, "skipping excluded file",
				slog.String("pod", podName),
				slog.String("path", remotePath),
			)
			continue
		}

		localPath := filepath.Join(destDir, filepath.FromSlash(relPath))
		if err := os.MkdirAll(filepath.Dir(localPath), 0o750); err != nil {
			return copied, fmt.Errorf("failed to create %s: %w", filepath.Dir(localPath), err)
		}

		if err := p.copier.CopyFile(ctx, podName, src.Container, remotePath, localPath, src.UseExecCopy); err != nil {
			return copied, err
		}
		copied++
	}

	return copied, nil
}

func (p *Processor) copySingleFile(ctx context.Context, src Source, podName, destDir string) (string, error) {
	destName := src.DestName
	if destName == "" {
		destName = path.Base(src.SingleFile)
	}
	destPath := filepath.Join(destDir, destName)

	if err := p.copier.CopyFile(ctx, podName, src.Container, src.SingleFile, destPath, src.UseExecCopy); err != nil {
		return "", err
	}
	return destPath, nil
}

// relativeTo returns remotePath relative to the remote directory dir, using
// slash-separated paths.
func relativeTo(dir, remotePath string) (string, error) {
	prefix := path.Clean(dir)
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	cleaned := path.Clean(remotePath)
	if !strings.HasPrefix(cleaned, prefix) {
		return "", fmt.Errorf("remote file %s is not under %s", remotePath, dir)
	}
	return strings.TrimPrefix(cleaned, prefix), nil
}
