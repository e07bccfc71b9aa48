package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command. Sketchgraph is a
// terminal application, so only the unix shells are offered.
func (c *CLI) completionCommand() *cobra.Command {
	generators := map[string]func(*cobra.Command, io.Writer) error{
		"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletion(w) },
		"zsh":  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
		"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	}

	return &cobra.Command{
		Use:   "completion <bash|zsh|fish>",
		Short: "Generate a shell completion script",
		Long: `Generate a shell completion script on stdout.

Load it directly for the current session:

  source <(sketchgraph completion bash)
  sketchgraph completion fish | source

Or install it once:

  sketchgraph completion bash > /etc/bash_completion.d/sketchgraph
  sketchgraph completion zsh > "${fpath[1]}/_sketchgraph"
  sketchgraph completion fish > ~/.config/fish/completions/sketchgraph.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generators[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
