package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/illumination-k/kubectl-copylogs/pkg/kubernetes"
	"github.com/illumination-k/kubectl-copylogs/pkg/sources"
)

// sourceView is the printable form of a sources.Source
type sourceView struct {
	Name       string `json:"name" yaml:"name"`
	Pods       string `json:"pods" yaml:"pods"`
	LogDir     string `json:"logDir,omitempty" yaml:"logDir,omitempty"`
	SingleFile string `json:"singleFile,omitempty" yaml:"singleFile,omitempty"`
	DestName   string `json:"destName,omitempty" yaml:"destName,omitempty"`
	Container  string `json:"container,omitempty" yaml:"container,omitempty"`
	Transfer   string `json:"transfer" yaml:"transfer"`
}

func newSourcesCommand(registry []sources.Source) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:     "sources",
		Short:   "List the available log sources",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			views := make([]sourceView, 0, len(registry))
			for _, src := range registry {
				views = append(views, newSourceView(src))
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "yaml":
				return outputYAML(out, views)
			case "json":
				return outputJSON(out, views)
			case "table":
				return outputTable(out, views)
			default:
				return &UsageError{Err: fmt.Errorf("unknown output format %q: use table, yaml or json", outputFormat)}
			}
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, yaml, json")

	return cmd
}

func newSourceView(src sources.Source) sourceView {
	transfer := kubernetes.StrategyDirect.String() + " unless path has ':'"
	if src.UseExecCopy {
		transfer = kubernetes.StrategyStream.String()
	}

	return sourceView{
		Name:       src.Name,
		Pods:       src.PodFilter,
		LogDir:     src.LogDir,
		SingleFile: src.SingleFile,
		DestName:   src.DestName,
		Container:  src.Container,
		Transfer:   transfer,
	}
}

func outputTable(out io.Writer, views []sourceView) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "NAME\tPODS\tPATH\tCONTAINER\tTRANSFER")
	for _, v := range views {
		path := v.LogDir
		if v.SingleFile != "" {
			path = v.SingleFile
		}
		container := v.Container
		if container == "" {
			container = "-"
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", v.Name, v.Pods, path, container, v.Transfer)
	}

	return w.Flush()
}

func outputYAML(out io.Writer, views []sourceView) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	defer func() { _ = encoder.Close() }()

	if err := encoder.Encode(views); err != nil {
		return fmt.Errorf("failed to encode sources to YAML: %w", err)
	}

	return nil
}

func outputJSON(out io.Writer, views []sourceView) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(views); err != nil {
		return fmt.Errorf("failed to encode sources to JSON: %w", err)
	}

	return nil
}
