package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fabiofranco85/escala/internal/models"
)

func newEventTypeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event-type",
		Short: "Manage service event types",
	}
	cmd.AddCommand(newEventTypeListCommand())
	cmd.AddCommand(newEventTypeCreateCommand())
	cmd.AddCommand(newEventTypeDeleteCommand())
	return cmd
}

func newEventTypeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured event types",
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, _, err := openRepos()
			if err != nil {
				return err
			}
			defer repos.Close()

			types, err := repos.EventTypes.GetAll()
			if err != nil {
				return err
			}
			for _, et := range types {
				fmt.Printf("%-14s %s  [%s]\n", et.Slug, et.Name, formatMoments(et.Moments))
				if et.Description != "" {
					fmt.Printf("               %s\n", et.Description)
				}
			}
			return nil
		},
	}
}

func newEventTypeCreateCommand() *cobra.Command {
	var (
		name        string
		description string
		moments     string
	)
	cmd := &cobra.Command{
		Use:     "create <slug>",
		Short:   "Create an event type with its own moment layout",
		Example: `  escala event-type create youth --name="Youth Night" --moments="louvor:4,ministração:2"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, err := models.ValidateEventTypeSlug(args[0])
			if err != nil {
				return err
			}
			layout, err := parseMoments(moments)
			if err != nil {
				return err
			}

			repos, _, err := openRepos()
			if err != nil {
				return err
			}
			defer repos.Close()

			et := models.EventType{
				Slug:        slug,
				Name:        name,
				Description: description,
				Moments:     layout,
			}
			if err := repos.EventTypes.Add(et); err != nil {
				return err
			}

			fmt.Printf("✅ Event type %q created [%s]\n", slug, formatMoments(layout))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&description, "description", "", "What this event type is for")
	cmd.Flags().StringVar(&moments, "moments", "", `Moment layout ("louvor:4,prelúdio:1", required)`)
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("moments")
	return cmd
}

func newEventTypeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete an event type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, _, err := openRepos()
			if err != nil {
				return err
			}
			defer repos.Close()

			if err := repos.EventTypes.Remove(args[0]); err != nil {
				return err
			}
			fmt.Printf("✅ Event type %q removed\n", args[0])
			return nil
		},
	}
}

// parseMoments reads a "louvor:4,prelúdio:1" layout, keeping the order
// in which the moments are written.
func parseMoments(raw string) (models.MomentCounts, error) {
	var out models.MomentCounts
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		name, countStr, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("invalid moment %q: expected \"name:count\"", item)
		}
		count, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil || count < 1 {
			return nil, fmt.Errorf("invalid count in %q: expected a positive number", item)
		}

		out = append(out, models.MomentCount{Name: strings.TrimSpace(name), Count: count})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("moments cannot be empty")
	}
	return out, nil
}

// formatMoments renders a moment layout in its configured order.
func formatMoments(moments models.MomentCounts) string {
	parts := make([]string, len(moments))
	for i, m := range moments {
		parts[i] = fmt.Sprintf("%s:%d", m.Name, m.Count)
	}
	return strings.Join(parts, ", ")
}
