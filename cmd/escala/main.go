// escala is the command-line interface to the setlist engine. It works
// on the configured library directly, without going through the API.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fabiofranco85/escala/internal/config"
	"github.com/fabiofranco85/escala/internal/repository"
	"github.com/fabiofranco85/escala/internal/setlist"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "escala",
		Short: "Generate and maintain worship setlists",
		Long: `escala builds setlists from a song library, balancing how recently
each song was played. Setlists are stored in the service history and
rendered to markdown with chord sheets.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newViewCommand())
	rootCmd.AddCommand(newReplaceCommand())
	rootCmd.AddCommand(newDeriveCommand())
	rootCmd.AddCommand(newLabelCommand())
	rootCmd.AddCommand(newMomentsCommand())
	rootCmd.AddCommand(newSongsCommand())
	rootCmd.AddCommand(newEventTypeCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

// openRepos loads the configuration and builds the repository set. The
// caller owns the container and must Close it.
func openRepos() (*repository.Container, setlist.Config, error) {
	cfg := config.Load()

	gen, err := config.LoadGeneration(cfg.Library.GenerationFile)
	if err != nil {
		return nil, setlist.Config{}, fmt.Errorf("loading generation rules: %w", err)
	}

	return repository.New(cfg, gen), gen, nil
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
