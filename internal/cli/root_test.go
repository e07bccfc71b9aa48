package cli

import (
	"os"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(os.Stderr, log.InfoLevel)
	root := c.RootCommand()

	want := []string{"edit", "generate", "render", "export", "import", "serve", "auth", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(os.Stderr, log.InfoLevel)
	c.SetLogLevel(log.DebugLevel)
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("log level = %v, want debug", c.Logger.GetLevel())
	}
}
