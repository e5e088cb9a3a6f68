package main

import (
	"github.com/spf13/cobra"
)

func (c *cli) achievementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Evaluate achievements",
	}

	check := &cobra.Command{
		Use:   "check <user-id>",
		Short: "Unlock every achievement the user now qualifies for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, done, err := c.services(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer done()

			ids, err := svcs.Achievements.CheckForNewAchievements(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ids == nil {
				ids = []string{}
			}
			return c.printJSON(map[string][]string{"new_achievements": ids})
		},
	}

	cmd.AddCommand(check)
	return cmd
}
