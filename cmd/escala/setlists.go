package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fabiofranco85/escala/internal/format"
	"github.com/fabiofranco85/escala/internal/models"
	"github.com/fabiofranco85/escala/internal/setlist"
)

func newGenerateCommand() *cobra.Command {
	var (
		date      string
		label     string
		eventType string
		overrides []string
		noSave    bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a setlist for a service date",
		Example: `  escala generate
  escala generate --date=2026-03-01 --label=evening
  escala generate --override "louvor=Song A,Song B" --no-save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseOverrides(overrides)
			if err != nil {
				return err
			}
			normalized, err := models.NormalizeLabel(label)
			if err != nil {
				return err
			}

			repos, gen, err := openRepos()
			if err != nil {
				return err
			}
			defer repos.Close()

			songs, err := repos.Songs.GetAll()
			if err != nil {
				return err
			}
			history, err := repos.History.GetAll()
			if err != nil {
				return err
			}

			// An event type may carry its own moment layout.
			var momentsOverride models.MomentCounts
			if eventType != "" {
				if et, err := repos.EventTypes.Get(eventType); err == nil {
					momentsOverride = et.Moments
				}
			}

			result, err := setlist.NewGenerator(songs, history, gen).
				Generate(date, parsed, normalized, eventType, momentsOverride)
			if err != nil {
				return err
			}

			md := format.SetlistMarkdown(result, songs)
			fmt.Println(md)

			if noSave {
				fmt.Println("⚠️ Not saved (--no-save)")
				return nil
			}

			if err := repos.History.Save(result); err != nil {
				return err
			}
			location, err := repos.Output.SaveMarkdown(result.ID(), md)
			if err != nil {
				return err
			}
			fmt.Printf("✅ Saved %s (markdown: %s)\n", result.ID(), location)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "Service date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&label, "label", "l", "", "Label for the setlist (e.g. evening)")
	cmd.Flags().StringVarP(&eventType, "event-type", "e", "", "Event type slug")
	cmd.Flags().StringArrayVar(&overrides, "override", nil, `Pin songs to a moment ("louvor=Song A,Song B"), repeatable`)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Print the setlist without saving it")
	return cmd
}

func newViewCommand() *cobra.Command {
	var (
		label     string
		eventType string
	)
	cmd := &cobra.Command{
		Use:   "view [date]",
		Short: "Print a stored setlist as markdown",
		Long:  "Without a date, the most recent setlist is shown.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized, err := models.NormalizeLabel(label)
			if err != nil {
				return err
			}

			repos, _, err := openRepos()
			if err != nil {
				return err
			}
			defer repos.Close()

			var s models.Setlist
			if len(args) == 0 {
				s, err = repos.History.GetLatest()
			} else {
				s, err = repos.History.GetByDate(args[0], normalized, eventType)
			}
			if err != nil {
				return err
			}

			songs, err := repos.Songs.GetAll()
			if err != nil {
				return err
			}
			fmt.Println(format.SetlistMarkdown(s, songs))
			return nil
		},
	}
	cmd.Flags().StringVarP(&label, "label", "l", "", "Label of the setlist")
	cmd.Flags().StringVarP(&eventType, "event-type", "e", "", "Event type slug")
	return cmd
}

func newReplaceCommand() *cobra.Command {
	var (
		moment    string
		position  int
		song      string
		label     string
		eventType string
		batchFile string
	)
	cmd := &cobra.Command{
		Use:   "replace <date>",
		Short: "Replace songs in a stored setlist",
		Long: `Replace one slot (--moment and --position, with --song for a manual
pick) or apply several replacements at once from a JSON file (--batch).
A batch file holds an array of {"moment", "position", "song"} objects;
omit "song" to auto-select a replacement.`,
		Example: `  escala replace 2026-03-01 --moment=louvor --position=0
  escala replace 2026-03-01 --moment=louvor --position=1 --song="Song B"
  escala replace 2026-03-01 --batch=changes.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized, err := models.NormalizeLabel(label)
			if err != nil {
				return err
			}
			if batchFile == "" && moment == "" {
				return fmt.Errorf("either --moment or --batch is required")
			}

			repos, gen, err := openRepos()
			if err != nil {
				return err
			}
			defer repos.Close()

			songs, err := repos.Songs.GetAll()
			if err != nil {
				return err
			}
			history, err := repos.History.GetAll()
			if err != nil {
				return err
			}

			target, err := setlist.FindTargetSetlist(history, args[0], normalized, eventType)
			if err != nil {
				return err
			}

			var updated models.Setlist
			if batchFile != "" {
				data, err := os.ReadFile(batchFile)
				if err != nil {
					return err
				}
				var requests []setlist.ReplaceRequest
				if err := json.Unmarshal(data, &requests); err != nil {
					return fmt.Errorf("parsing %s: %w", batchFile, err)
				}

				updated, err = setlist.ReplaceSongsBatch(target, requests, songs, history, gen, newRand())
				if err != nil {
					return err
				}
				fmt.Printf("✅ Applied %d replacement(s) to %s\n", len(requests), target.ID())
			} else {
				title, err := setlist.SelectReplacementSong(target, moment, position, song, songs, history, gen, newRand())
				if err != nil {
					return err
				}
				updated, err = setlist.ReplaceSong(target, moment, position, title, songs, true, gen)
				if err != nil {
					return err
				}
				fmt.Printf("✅ %s[%d] is now %q\n", moment, position, title)
			}

			if err := repos.History.Update(updated); err != nil {
				return err
			}
			printPlan(updated)
			return nil
		},
	}
	cmd.Flags().StringVarP(&moment, "moment", "m", "", "Moment holding the slot")
	cmd.Flags().IntVarP(&position, "position", "p", 0, "Slot position within the moment (0-based)")
	cmd.Flags().StringVarP(&song, "song", "s", "", "Manual replacement (omit to auto-select)")
	cmd.Flags().StringVarP(&label, "label", "l", "", "Label of the setlist")
	cmd.Flags().StringVarP(&eventType, "event-type", "e", "", "Event type slug")
	cmd.Flags().StringVar(&batchFile, "batch", "", "JSON file with several replacements")
	cmd.MarkFlagsMutuallyExclusive("moment", "batch")
	return cmd
}

func newDeriveCommand() *cobra.Command {
	var (
		label     string
		count     int
		eventType string
	)
	cmd := &cobra.Command{
		Use:   "derive <date>",
		Short: "Create a labeled variant of a setlist",
		Long: `Copies the unlabeled setlist of the date under a new label with some
slots re-picked. Without --count, a random number of slots changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized, err := models.NormalizeLabel(label)
			if err != nil {
				return err
			}
			if normalized == "" {
				return fmt.Errorf("label cannot be empty")
			}

			repos, gen, err := openRepos()
			if err != nil {
				return err
			}
			defer repos.Close()

			songs, err := repos.Songs.GetAll()
			if err != nil {
				return err
			}
			history, err := repos.History.GetAll()
			if err != nil {
				return err
			}

			base, err := setlist.FindTargetSetlist(history, args[0], "", eventType)
			if err != nil {
				return err
			}

			var replaceCount *int
			if cmd.Flags().Changed("count") {
				replaceCount = &count
			}

			derived, err := setlist.DeriveSetlist(base, songs, history, replaceCount, eventType, gen, newRand())
			if err != nil {
				return err
			}
			derived.Label = normalized
			if eventType != "" {
				derived.EventType = eventType
			}

			if err := repos.History.Save(derived); err != nil {
				return err
			}

			fmt.Printf("✅ Derived %s from %s\n", derived.ID(), base.ID())
			printPlan(derived)
			return nil
		},
	}
	cmd.Flags().StringVarP(&label, "label", "l", "", "Label for the derived setlist (required)")
	cmd.Flags().IntVarP(&count, "count", "c", 0, "How many slots to replace")
	cmd.Flags().StringVarP(&eventType, "event-type", "e", "", "Event type slug")
	cmd.MarkFlagRequired("label")
	return cmd
}

// parseOverrides turns repeated "moment=Song A,Song B" flags into the
// engine's override map.
func parseOverrides(raw []string) (map[string][]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	out := make(map[string][]string, len(raw))
	for _, item := range raw {
		moment, list, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("invalid override %q: expected \"moment=Song A,Song B\"", item)
		}

		moment = strings.TrimSpace(moment)
		var songs []string
		for _, s := range strings.Split(list, ",") {
			if s = strings.TrimSpace(s); s != "" {
				songs = append(songs, s)
			}
		}
		if moment == "" || len(songs) == 0 {
			return nil, fmt.Errorf("invalid override %q: expected \"moment=Song A,Song B\"", item)
		}

		out[moment] = append(out[moment], songs...)
	}
	return out, nil
}

// printPlan writes a setlist's moments without chord content.
func printPlan(s models.Setlist) {
	for _, m := range s.Moments {
		fmt.Printf("  %s: %s\n", m.Name, strings.Join(m.Songs, ", "))
	}
}
