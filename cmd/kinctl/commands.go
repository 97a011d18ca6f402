package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/kinship/internal/core"
	"github.com/agenthands/kinship/internal/core/detail"
	"github.com/agenthands/kinship/internal/core/export"
	"github.com/agenthands/kinship/internal/dataset"
	"github.com/agenthands/kinship/internal/driver"
)

var (
	outputFormat string
	directed     bool
	treeID       string
	memgraphURI  string
	memgraphUser string
	memgraphPass string

	rootCmd = &cobra.Command{
		Use:   "kinctl",
		Short: "Inspect and export family tree datasets",
	}

	elementsCmd = &cobra.Command{
		Use:   "elements [dataset]",
		Short: "Print the graph elements built from a dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  runElements,
	}

	pathCmd = &cobra.Command{
		Use:   "path [dataset] [from-id] [to-id]",
		Short: "Print the shortest kinship path between two people",
		Args:  cobra.ExactArgs(3),
		RunE:  runPath,
	}

	branchesCmd = &cobra.Command{
		Use:   "branches [dataset]",
		Short: "List the groups of people connected by any kinship",
		Args:  cobra.ExactArgs(1),
		RunE:  runBranches,
	}

	exportCmd = &cobra.Command{
		Use:   "export [dataset]",
		Short: "Write a dataset's graph into Memgraph",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
)

func init() {
	rootCmd.AddCommand(elementsCmd, pathCmd, branchesCmd, exportCmd)
}

func registerFlags() {
	elementsCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "output format: json or yaml")
	pathCmd.Flags().BoolVar(&directed, "directed", false, "follow edges only from source to target")

	exportCmd.Flags().StringVar(&treeID, "tree", "family", "tree id the elements are stored under")
	exportCmd.Flags().StringVar(&memgraphURI, "uri", envOr("MEMGRAPH_URI", "bolt://localhost:7687"), "Memgraph bolt URI")
	exportCmd.Flags().StringVar(&memgraphUser, "user", os.Getenv("MEMGRAPH_USER"), "Memgraph user")
	exportCmd.Flags().StringVar(&memgraphPass, "password", os.Getenv("MEMGRAPH_PASSWORD"), "Memgraph password")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadTree(path string) (*core.Tree, error) {
	people, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	return core.NewTree(treeID, people, detail.DefaultLabels(), nil), nil
}

func runElements(cmd *cobra.Command, args []string) error {
	tree, err := loadTree(args[0])
	if err != nil {
		return err
	}
	return write(cmd.OutOrStdout(), outputFormat, tree.Elements())
}

func write(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func runPath(cmd *cobra.Command, args []string) error {
	tree, err := loadTree(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	if !tree.Related(args[1], args[2]) {
		fmt.Fprintf(out, "No path between %s and %s\n", args[1], args[2])
		return nil
	}

	path, err := tree.Index.ShortestPath(ctx, args[1], args[2], directed)
	if err != nil {
		return fmt.Errorf("failed to search path: %w", err)
	}
	if !path.Found {
		fmt.Fprintf(out, "No path between %s and %s\n", args[1], args[2])
		return nil
	}

	fmt.Fprintf(out, "Path (%d edges): %s\n", path.Length(), strings.Join(path.Elements, " -> "))
	exp := tree.Narrator.Explain(ctx, tree.ByID, tree.Index, path)
	if exp.Sentence != "" {
		fmt.Fprintln(out, exp.Sentence)
	}
	return nil
}

func runBranches(cmd *cobra.Command, args []string) error {
	tree, err := loadTree(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, b := range tree.Branches {
		names := make([]string, len(b.People))
		for i, id := range b.People {
			names[i] = tree.ByID[id].Name
		}
		fmt.Fprintf(out, "%d: %s\n", b.ID, strings.Join(names, ", "))
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	tree, err := loadTree(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := driver.NewMemgraphDriver(ctx, memgraphURI, memgraphUser, memgraphPass)
	if err != nil {
		return err
	}
	defer d.Close(ctx)

	if err := d.BuildIndices(ctx); err != nil {
		return fmt.Errorf("failed to build indices: %w", err)
	}

	report, err := export.NewExporter(d).Export(ctx, tree.ID, tree.Genders(), tree.Elements())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d nodes and %d edges to tree %s (%d failed)\n", report.Nodes, report.Edges, tree.ID, report.Failed)
	return nil
}
