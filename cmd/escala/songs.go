package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fabiofranco85/escala/internal/config"
	"github.com/fabiofranco85/escala/internal/setlist"
)

func newSongsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "songs",
		Short: "Inspect the song catalog",
	}
	cmd.AddCommand(newSongsListCommand())
	cmd.AddCommand(newSongsSearchCommand())
	cmd.AddCommand(newSongsInfoCommand())
	return cmd
}

func newSongsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every song in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, _, err := openRepos()
			if err != nil {
				return err
			}
			defer repos.Close()

			songs, err := repos.Songs.GetAll()
			if err != nil {
				return err
			}
			for _, s := range songs {
				fmt.Printf("%-40s energy=%.1f  %s\n", s.Title, s.Energy, formatTags(s.Tags))
			}
			return nil
		},
	}
}

func newSongsSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search songs by title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, _, err := openRepos()
			if err != nil {
				return err
			}
			defer repos.Close()

			songs, err := repos.Songs.Search(args[0])
			if err != nil {
				return err
			}
			if len(songs) == 0 {
				fmt.Printf("No songs matching %q\n", args[0])
				return nil
			}
			for _, s := range songs {
				fmt.Printf("%-40s energy=%.1f  %s\n", s.Title, s.Energy, formatTags(s.Tags))
			}
			return nil
		},
	}
}

func newSongsInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <title>",
		Short: "Show a song's metadata and usage history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Unquoted multi-word titles work too.
			title := strings.Join(args, " ")

			repos, _, err := openRepos()
			if err != nil {
				return err
			}
			defer repos.Close()

			song, err := repos.Songs.GetByTitle(title)
			if err != nil {
				return err
			}
			history, err := repos.History.GetAll()
			if err != nil {
				return err
			}

			usage := setlist.UsageHistory(title, history)

			fmt.Println(song.Title)
			fmt.Printf("  energy: %.1f\n", song.Energy)
			fmt.Printf("  tags: %s\n", formatTags(song.Tags))
			if song.YouTubeURL != "" {
				fmt.Printf("  youtube: %s\n", song.YouTubeURL)
			}
			if len(song.EventTypes) > 0 {
				fmt.Printf("  event types: %s\n", strings.Join(song.EventTypes, ", "))
			}
			fmt.Printf("  times played: %d\n", len(usage))

			if days, used, err := setlist.DaysSinceLastUse(title, history, ""); err == nil && used {
				fmt.Printf("  last played: %d day(s) ago\n", days)
			} else {
				fmt.Println("  last played: never")
			}

			for _, u := range usage {
				fmt.Printf("    %s (%s)\n", u.Date, strings.Join(u.Moments, ", "))
			}
			return nil
		},
	}
}

func newMomentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "moments",
		Short: "Show the configured moment layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			gen, err := config.LoadGeneration(cfg.Library.GenerationFile)
			if err != nil {
				return err
			}
			for _, m := range gen.Moments {
				fmt.Printf("  %s: %d song(s)\n", m.Name, m.Count)
			}
			return nil
		},
	}
}

// formatTags renders a song's moment weights in a stable order.
func formatTags(tags map[string]int) string {
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s(%d)", name, tags[name])
	}
	return strings.Join(parts, ", ")
}
