package kubernetes

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Strategy selects how a remote file is transferred
type Strategy int

const (
	// StrategyDirect uses `kubectl cp <pod>:<path> <local>`
	StrategyDirect Strategy = iota

	// StrategyStream pipes `kubectl exec <pod> -- cat <path>` into the local file.
	// kubectl cp splits its source on ':', so paths containing one need this.
	StrategyStream
)

func (s Strategy) String() string {
	switch s {
	case StrategyStream:
		return "stream"
	default:
		return "direct"
	}
}

// SelectStrategy returns StrategyStream when forced or when remotePath
// contains ':', StrategyDirect otherwise.
func SelectStrategy(remotePath string, forceStream bool) Strategy {
	if forceStream || strings.Contains(remotePath, ":") {
		return StrategyStream
	}
	return StrategyDirect
}

// CopyFile copies remotePath from the pod to localPath, creating or
// overwriting it.
func (k *Kubectl) CopyFile(ctx context.Context, podName, container, remotePath, localPath string, forceStream bool) error {
	switch SelectStrategy(remotePath, forceStream) {
	case StrategyStream:
		return k.streamFile(ctx, podName, container, remotePath, localPath)
	default:
		return k.directCopy(ctx, podName, container, remotePath, localPath)
	}
}

func (k *Kubectl) directCopy(ctx context.Context, podName, container, remotePath, localPath string) error {
	args := []string{"cp"}
	if container != "" {
		args = append(args, "-c", container)
	}
	args = append(args, podName+":"+remotePath, localPath)

	_, err := k.run(ctx, args...)
	return err
}

// streamFile writes the remote file into localPath as it arrives. The exit
// status is only known once the stream ends, so a failed copy can leave a
// partial file behind.
func (k *Kubectl) streamFile(ctx context.Context, podName, container, remotePath, localPath string) error {
	//#nosec G304 -- localPath is derived from the output directory
	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}

	streamErr := k.executor.Stream(ctx, f, k.binary, k.args(execArgs(podName, container, "cat", remotePath)...)...)
	closeErr := f.Close()

	if streamErr != nil {
		return streamErr
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", localPath, closeErr)
	}

	return nil
}
