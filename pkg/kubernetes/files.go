package kubernetes

import (
	"context"
	"strings"
)

// ListFiles returns every regular file under dir inside the pod
func (k *Kubectl) ListFiles(ctx context.Context, podName, container, dir string) ([]string, error) {
	out, err := k.run(ctx, execArgs(podName, container, "find", dir, "-type", "f", "-print")...)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}

	return files, nil
}
