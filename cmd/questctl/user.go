package main

import (
	"github.com/spf13/cobra"

	"github.com/forgo/quest/internal/model"
)

func (c *cli) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user records",
	}

	var displayName, avatar string
	ensure := &cobra.Command{
		Use:   "ensure <user-id>",
		Short: "Create a user's profile and progress if missing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, done, err := c.services(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer done()

			profile, err := svcs.Profiles.EnsureUser(cmd.Context(), args[0], displayName, avatar)
			if err != nil {
				return err
			}
			return c.printJSON(profile)
		},
	}
	ensure.Flags().StringVar(&displayName, "name", "", "display name (defaults to the user id)")
	ensure.Flags().StringVar(&avatar, "avatar", "", "avatar URL")

	show := &cobra.Command{
		Use:   "show <user-id>",
		Short: "Print a user's profile and progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, done, err := c.services(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer done()

			profile, err := svcs.Profiles.GetProfile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			progress, err := svcs.Profiles.GetProgress(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printJSON(struct {
				Profile  *model.UserProfile  `json:"profile"`
				Progress *model.UserProgress `json:"progress"`
			}{profile, progress})
		},
	}

	cmd.AddCommand(ensure, show)
	return cmd
}
