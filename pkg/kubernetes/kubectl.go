package kubernetes

import "context"

// DefaultBinary is the cluster CLI used when none is configured
const DefaultBinary = "kubectl"

// Options configures how kubectl is invoked. Empty fields are not passed,
// so kubectl's own configuration applies.
type Options struct {
	Binary     string
	Kubeconfig string
	Context    string
	Namespace  string
}

// Kubectl drives the kubectl CLI through a CommandExecutor
type Kubectl struct {
	executor   CommandExecutor
	binary     string
	globalArgs []string
}

// NewKubectl creates a new Kubectl using executor for every invocation
func NewKubectl(executor CommandExecutor, opts Options) *Kubectl {
	binary := opts.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	var globalArgs []string
	if opts.Kubeconfig != "" {
		globalArgs = append(globalArgs, "--kubeconfig", opts.Kubeconfig)
	}
	if opts.Context != "" {
		globalArgs = append(globalArgs, "--context", opts.Context)
	}
	if opts.Namespace != "" {
		globalArgs = append(globalArgs, "-n", opts.Namespace)
	}

	return &Kubectl{
		executor:   executor,
		binary:     binary,
		globalArgs: globalArgs,
	}
}

func (k *Kubectl) args(args ...string) []string {
	full := make([]string, 0, len(k.globalArgs)+len(args))
	full = append(full, k.globalArgs...)
	return append(full, args...)
}

func (k *Kubectl) run(ctx context.Context, args ...string) (string, error) {
	return k.executor.Run(ctx, k.binary, k.args(args...)...)
}

// execArgs builds `exec <pod> [-c <container>] -- <command...>`
func execArgs(podName, container string, command ...string) []string {
	args := []string{"exec", podName}
	if container != "" {
		args = append(args, "-c", container)
	}
	args = append(args, "--")
	return append(args, command...)
}
