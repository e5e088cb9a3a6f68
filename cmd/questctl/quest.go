package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/forgo/quest/internal/service"
)

func (c *cli) questCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quest",
		Short: "Inspect and complete quests",
	}

	list := &cobra.Command{
		Use:   "list [user-id]",
		Short: "List the quest feed, with unlock state for a user",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, done, err := c.services(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer done()

			unlocked := svcs.Quests.Unlocked(nil)
			completed := map[string]bool{}
			if len(args) == 1 {
				progress, err := svcs.Profiles.GetProgress(cmd.Context(), args[0])
				if err != nil && !errors.Is(err, service.ErrProfileNotFound) {
					return err
				}
				unlocked = svcs.Quests.Unlocked(progress)
				for _, q := range svcs.Quests.All() {
					completed[q.ID] = progress != nil && progress.HasCompleted(q.ID)
				}
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSUBJECT\tXP\tUNLOCKED\tCOMPLETED")
			for _, q := range svcs.Quests.All() {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t%t\n", q.ID, q.Subject, q.Rewards.XP, unlocked[q.ID], completed[q.ID])
			}
			return tw.Flush()
		},
	}

	complete := &cobra.Command{
		Use:   "complete <user-id> <quest-id>",
		Short: "Credit a quest to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, done, err := c.services(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer done()

			quest, ok := svcs.Quests.Get(args[1])
			if !ok {
				return fmt.Errorf("%w: %s", service.ErrQuestNotFound, args[1])
			}
			result, err := svcs.Progression.CompleteQuest(cmd.Context(), args[0], quest)
			if err != nil {
				return err
			}
			return c.printJSON(result)
		},
	}

	cmd.AddCommand(list, complete)
	return cmd
}
