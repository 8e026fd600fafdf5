package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/illumination-k/kubectl-copylogs/internal/version"
	"github.com/illumination-k/kubectl-copylogs/pkg/kubernetes"
	"github.com/illumination-k/kubectl-copylogs/pkg/log"
	"github.com/illumination-k/kubectl-copylogs/pkg/sources"
)

type rootOptions struct {
	sources   string
	outputDir string
	excludes  []string
	kube      kubernetes.Options
	logLevel  string
	logFormat string
}

// NewRootCommand creates the root command for kubectl-copylogs
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithExecutor(kubernetes.NewProcessExecutor())
}

// NewRootCommandWithExecutor creates the root command using executor for
// every kubectl invocation
func NewRootCommandWithExecutor(executor kubernetes.CommandExecutor) *cobra.Command {
	registry := sources.Registry()
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "kubectl-copylogs",
		Short: "Copy log files out of cluster pods",
		Long: `kubectl-copylogs copies log files from tikv, tiflash and s3clean pods into
per-pod directories for offline inspection.

Examples:
  kubectl-copylogs
  kubectl-copylogs --sources tikv
  kubectl-copylogs -s tikv,tiflash -d ./incident-42`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			handler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
			if err != nil {
				return &UsageError{Err: err}
			}
			cmd.SetContext(log.NewContext(cmd.Context(), slog.New(handler)))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCopy(cmd, executor, registry, opts)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	flags := cmd.Flags()
	flags.StringVarP(&opts.sources, "sources", "s", sources.DefaultSelection(registry),
		"Comma-separated list of sources to download: "+sources.DefaultSelection(registry))
	flags.StringVarP(&opts.outputDir, "output-dir", "d", "", "Base directory for per-pod folders (default: current directory)")
	flags.StringArrayVar(&opts.excludes, "exclude", nil, "Skip log files matching a gitignore-style pattern, relative to the log directory (repeatable)")

	// Global flags
	persistent := cmd.PersistentFlags()
	addKubectlFlags(persistent, &opts.kube)
	persistent.StringVar(&opts.logLevel, "log-level", string(log.LevelInfo), "Log level: "+strings.Join(log.AllLevels, ", "))
	persistent.StringVar(&opts.logFormat, "log-format", string(log.FormatText), "Log format: "+strings.Join(log.AllFormats, ", "))

	cmd.AddCommand(newSourcesCommand(registry))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// addKubectlFlags registers the flags passed through to every kubectl call
func addKubectlFlags(fs *pflag.FlagSet, opts *kubernetes.Options) {
	fs.StringVar(&opts.Binary, "kubectl", kubernetes.DefaultBinary, "kubectl binary to invoke")
	fs.StringVar(&opts.Kubeconfig, "kubeconfig", "", "Path to kubeconfig file")
	fs.StringVar(&opts.Context, "context", "", "Kubeconfig context to use")
	fs.StringVarP(&opts.Namespace, "namespace", "n", "", "Kubernetes namespace")
}

func runCopy(cmd *cobra.Command, executor kubernetes.CommandExecutor, registry []sources.Source, opts *rootOptions) error {
	ctx := cmd.Context()
	logger := log.FromContext(ctx)

	// 1. Validate the selection before touching the cluster
	selection, err := sources.ParseSelection(opts.sources, registry)
	if err != nil {
		return err
	}

	baseDir := opts.outputDir
	if baseDir == "" {
		if baseDir, err = os.Getwd(); err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	logContext(ctx, opts.kube)

	// 2. Fetch pods once for every source
	kubectl := kubernetes.NewKubectl(executor, opts.kube)
	pods, err := kubectl.ListPods(ctx)
	if err != nil {
		return err
	}
	logger.DebugContext(ctx, "listed pods", slog.Int("count", len(pods)))

	// 3. Copy each selected source in registry order
	processor := sources.NewProcessor(kubectl, baseDir, cmd.OutOrStdout(), sources.NewExcluder(opts.excludes))
	for _, src := range sources.Select(registry, selection) {
		result, err := processor.Process(ctx, src, pods)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "source done",
			slog.String("source", src.Name),
			slog.Int("pods", result.Pods),
			slog.Int("files", result.Files),
		)
	}

	return nil
}

// logContext reports which kubeconfig context kubectl is expected to use.
// kubectl may still succeed without a readable kubeconfig, so failures are
// only logged.
func logContext(ctx context.Context, opts kubernetes.Options) {
	logger := log.FromContext(ctx)

	info, err := kubernetes.ResolveContext(opts)
	if err != nil {
		logger.DebugContext(ctx, "could not resolve kubeconfig context", slog.Any("error", err))
		return
	}

	logger.InfoContext(ctx, "using kubeconfig context",
		slog.String("context", info.Name),
		slog.String("cluster", info.Cluster),
		slog.String("namespace", info.Namespace),
	)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "kubectl-copylogs version %s\n", version.Version)
		},
	}
}
