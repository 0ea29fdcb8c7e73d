package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fabiofranco85/escala/internal/models"
	"github.com/fabiofranco85/escala/internal/setlist"
)

func newLabelCommand() *cobra.Command {
	var (
		to        string
		remove    bool
		eventType string
	)
	cmd := &cobra.Command{
		Use:   "label <date> <label>",
		Short: "Add, rename or remove a setlist label",
		Long: `Without flags, copies the unlabeled setlist of the date under the
given label. --to renames the label; --remove deletes the labeled
setlist along with its rendered outputs.`,
		Example: `  escala label 2026-03-01 evening
  escala label 2026-03-01 evening --to night
  escala label 2026-03-01 night --remove`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := args[0]
			label, err := models.NormalizeLabel(args[1])
			if err != nil {
				return err
			}
			if label == "" {
				return fmt.Errorf("label cannot be empty")
			}

			repos, _, err := openRepos()
			if err != nil {
				return err
			}
			defer repos.Close()

			switch {
			case remove:
				s, err := repos.History.GetByDate(date, label, eventType)
				if err != nil {
					return err
				}
				if err := repos.History.Delete(date, label, eventType); err != nil {
					return err
				}
				removed, err := repos.Output.DeleteOutputs(s.ID())
				if err != nil {
					fmt.Printf("⚠️ Could not delete outputs: %v\n", err)
				}
				for _, location := range removed {
					fmt.Printf("   removed %s\n", location)
				}
				fmt.Printf("✅ Label %q removed from %s\n", label, date)

			case to != "":
				newLabel, err := models.NormalizeLabel(to)
				if err != nil {
					return err
				}
				if newLabel == "" {
					return fmt.Errorf("new label cannot be empty")
				}

				source, err := repos.History.GetByDate(date, label, eventType)
				if err != nil {
					return err
				}
				exists, err := repos.History.Exists(date, newLabel, eventType)
				if err != nil {
					return err
				}
				if exists {
					return fmt.Errorf("label %q already exists for %s", newLabel, date)
				}

				renamed := setlist.Relabel(source, newLabel)
				if err := repos.History.Save(renamed); err != nil {
					return err
				}
				if err := repos.History.Delete(date, label, eventType); err != nil {
					return err
				}
				fmt.Printf("✅ Label %q renamed to %q for %s\n", label, newLabel, date)

			default:
				source, err := repos.History.GetByDate(date, "", eventType)
				if err != nil {
					return err
				}
				exists, err := repos.History.Exists(date, label, eventType)
				if err != nil {
					return err
				}
				if exists {
					return fmt.Errorf("label %q already exists for %s", label, date)
				}

				labeled := setlist.Relabel(source, label)
				if err := repos.History.Save(labeled); err != nil {
					return err
				}
				fmt.Printf("✅ Label %q added to %s\n", label, date)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Rename the label to this value")
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the labeled setlist")
	cmd.Flags().StringVarP(&eventType, "event-type", "e", "", "Event type slug")
	cmd.MarkFlagsMutuallyExclusive("to", "remove")
	return cmd
}
