package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchgraph/pkg/cache"
	"github.com/matzehuels/sketchgraph/pkg/docio"
	"github.com/matzehuels/sketchgraph/pkg/genai"
	"github.com/matzehuels/sketchgraph/pkg/layout"
	"github.com/matzehuels/sketchgraph/pkg/store"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output  string
		docID   string
		noCache bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "generate <description>",
		Short: "Generate a diagram from a plain-language description",
		Long: `Generate a diagram from a plain-language description.

The description is sent to the configured model, which drafts nodes and
edges. The draft is laid out top-to-bottom and saved as the working
document (or written to a file with --output).

Requires an API key, either in the config file under [generation] or in
the SKETCHGRAPH_API_KEY environment variable.

Example:
  sketchgraph generate "a web app with a load balancer, two app servers and a postgres database"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			return c.runGenerate(cmd, prompt, output, docID, noCache, dryRun)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the diagram to a JSON file instead of the store")
	cmd.Flags().StringVar(&docID, "doc", store.DefaultDocumentID, "document id to save under")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable response caching")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print stats without saving")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, prompt, output, docID string, noCache, dryRun bool) error {
	ctx := cmd.Context()
	cfg, err := c.Config()
	if err != nil {
		return err
	}

	var responseCache cache.Cache
	if !noCache {
		responseCache, err = newResponseCache()
		if err != nil {
			c.Logger.Debug("response cache unavailable", "err", err)
			responseCache = cache.NewNullCache()
		}
	} else {
		responseCache = cache.NewNullCache()
	}
	defer responseCache.Close()

	client := genai.NewClient(genai.Config{
		APIKey: cfg.Generation.APIKey,
		Model:  cfg.Generation.Model,
		Cache:  responseCache,
	})

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Drafting diagram...")
	spinner.Start()

	raw, err := client.Generate(ctx, prompt)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	doc := layout.Apply(raw.ToDocument())
	prog.done(fmt.Sprintf("Generated %d nodes", len(doc.Nodes)))

	if dryRun {
		printStats(len(doc.Nodes), len(doc.Edges), len(doc.Paths))
		return nil
	}

	if output != "" {
		if err := docio.ExportJSON(doc, output); err != nil {
			return err
		}
		printSuccess("Diagram written")
		printFile(output)
		printStats(len(doc.Nodes), len(doc.Edges), len(doc.Paths))
		return nil
	}

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	if err := st.Save(ctx, docID, doc); err != nil {
		return err
	}
	printSuccess("Diagram saved as %s", StyleHighlight.Render(docID))
	printStats(len(doc.Nodes), len(doc.Edges), len(doc.Paths))
	printDetail("Run 'sketchgraph edit' to open it")
	return nil
}

// newResponseCache opens the on-disk cache for model responses, under the
// XDG cache directory.
func newResponseCache() (cache.Cache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(filepath.Join(dir, "genai"))
}
