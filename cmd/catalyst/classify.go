package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tata1mg/catalyst-go/internal/config"
	"github.com/tata1mg/catalyst-go/internal/errors"
	"github.com/tata1mg/catalyst-go/pkg/classify"
)

func classifyCmd() *cobra.Command {
	var (
		graphPath string
		output    string
	)

	cmd := &cobra.Command{
		Use:     "classify",
		Aliases: []string{"build"},
		Short:   "Classify the module graph into essential and dynamic assets",
		Long: `Read the compiled module graph and partition every chunk into the
essential set (loaded on first paint) or the dynamic set (loaded when a
boundary renders). Writes manifest.json and categorized.json to the
output directory.

Examples:
  catalyst classify
  catalyst classify --graph=dist/graph.json --output=dist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(graphPath, output)
		},
	}

	cmd.Flags().StringVarP(&graphPath, "graph", "g", "", "Module graph path (default from catalyst.json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from catalyst.json)")

	return cmd
}

func runClassify(graphPath, output string) error {
	if graphPath == "" || output == "" {
		cfg, err := config.LoadFromWorkingDir()
		if err != nil {
			return err
		}
		if graphPath == "" {
			graphPath = cfg.GraphPath()
		}
		if output == "" {
			output = cfg.OutputPath()
		}
	}

	data, err := os.ReadFile(graphPath)
	if err != nil {
		return errors.New("E201").Wrap(err).
			WithDetail("reading " + graphPath)
	}

	graph, err := classify.ParseGraph(data)
	if err != nil {
		return err
	}

	result, err := classify.Classify(graph)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(output, 0755); err != nil {
		return errors.New("E501").Wrap(err)
	}

	manifestData, err := result.Manifest.Encode()
	if err != nil {
		return errors.New("E501").Wrap(err)
	}
	manifestPath := filepath.Join(output, "manifest.json")
	if err := os.WriteFile(manifestPath, manifestData, 0644); err != nil {
		return errors.New("E501").Wrap(err).WithDetail(manifestPath)
	}

	categoryData, err := result.Category.Encode()
	if err != nil {
		return errors.New("E501").Wrap(err)
	}
	categoryPath := filepath.Join(output, "categorized.json")
	if err := os.WriteFile(categoryPath, categoryData, 0644); err != nil {
		return errors.New("E501").Wrap(err).WithDetail(categoryPath)
	}

	success("classified %d chunks (fingerprint %x)", len(graph.Chunks), result.Fingerprint)
	info("essential: %d chunks, %d js, %d css",
		len(result.EssentialChunks),
		len(result.Category.Essential.JS),
		len(result.Category.Essential.CSS))
	info("dynamic:   %d chunks, %d js, %d css",
		len(result.DynamicChunks),
		len(result.Category.Dynamic.JS),
		len(result.Category.Dynamic.CSS))
	info("wrote %s", manifestPath)
	info("wrote %s", categoryPath)

	return nil
}
