package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tata1mg/catalyst-go/internal/config"
	"github.com/tata1mg/catalyst-go/pkg/manifest"
)

func inspectCmd() *cobra.Command {
	var (
		manifestPath string
		categoryPath string
		modules      bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a classified build",
		Long: `Print the essential and dynamic asset sets of a classified build,
and optionally the module-to-chunk mapping.

Examples:
  catalyst inspect
  catalyst inspect --modules`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(manifestPath, categoryPath, modules)
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Manifest path (default from catalyst.json)")
	cmd.Flags().StringVar(&categoryPath, "category", "", "Categorized asset path (default from catalyst.json)")
	cmd.Flags().BoolVarP(&modules, "modules", "m", false, "List every module and its chunk")

	return cmd
}

func runInspect(manifestPath, categoryPath string, modules bool) error {
	if manifestPath == "" || categoryPath == "" {
		cfg, err := config.LoadFromWorkingDir()
		if err != nil {
			return err
		}
		if manifestPath == "" {
			manifestPath = cfg.ManifestPath()
		}
		if categoryPath == "" {
			categoryPath = cfg.CategoryPath()
		}
	}

	manifestData, err := os.ReadFile(manifestPath)
	if err != nil {
		return err
	}
	m, err := manifest.ParseManifest(manifestData)
	if err != nil {
		return err
	}

	categoryData, err := os.ReadFile(categoryPath)
	if err != nil {
		return err
	}
	cat, err := manifest.ParseCategory(categoryData)
	if err != nil {
		return err
	}

	success("%d modules, %d essential assets, %d dynamic assets",
		len(m),
		len(cat.Essential.JS)+len(cat.Essential.CSS),
		len(cat.Dynamic.JS)+len(cat.Dynamic.CSS))

	fmt.Println("\nEssential:")
	printGroup(cat.Essential)
	fmt.Println("\nDynamic:")
	printGroup(cat.Dynamic)

	if modules {
		fmt.Println("\nModules:")
		ids := make([]string, 0, len(m))
		for id := range m {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			entry := m[id]
			marker := " "
			if entry.IsEntry {
				marker = "*"
			}
			info("%s %-40s -> %s", marker, id, entry.File)
		}
	}

	return nil
}

func printGroup(g manifest.AssetGroup) {
	for _, js := range g.JS {
		info("js  %s", js)
	}
	for _, css := range g.CSS {
		info("css %s", css)
	}
}
