package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchgraph/pkg/docio"
	"github.com/matzehuels/sketchgraph/pkg/store"
)

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var docID string

	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import a diagram from JSON",
		Long: `Import a diagram from a JSON file and save it as the working
document.

The file must contain a top-level "nodes" array. Invalid files are
rejected before anything is written, so a failed import never clobbers
the stored document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := docio.ImportJSON(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if err := st.Save(ctx, docID, doc); err != nil {
				return err
			}

			printSuccess("Imported diagram as %s", StyleHighlight.Render(docID))
			printStats(len(doc.Nodes), len(doc.Edges), len(doc.Paths))
			return nil
		},
	}

	cmd.Flags().StringVar(&docID, "doc", store.DefaultDocumentID, "document id to save under")

	return cmd
}
