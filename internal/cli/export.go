package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchgraph/pkg/docio"
	"github.com/matzehuels/sketchgraph/pkg/store"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output string
		docID  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the diagram as pretty-printed JSON",
		Long: `Export the stored diagram as pretty-printed JSON.

Without --output the file is named diagram-<timestamp>.json in the
current directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			doc, err := st.Load(ctx, docID)
			if err != nil {
				return err
			}
			if doc == nil {
				printWarning("No document saved yet, nothing to export")
				return nil
			}

			if output == "" {
				output = docio.ExportFilename(time.Now())
			}
			if err := docio.ExportJSON(doc, output); err != nil {
				return err
			}

			printSuccess("Exported diagram")
			printFile(output)
			printStats(len(doc.Nodes), len(doc.Edges), len(doc.Paths))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default diagram-<timestamp>.json)")
	cmd.Flags().StringVar(&docID, "doc", store.DefaultDocumentID, "document id to export")

	return cmd
}
