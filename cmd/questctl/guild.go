package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgo/quest/internal/model"
)

func (c *cli) guildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guild",
		Short: "Manage guilds",
	}

	var req model.CreateGuildRequest
	create := &cobra.Command{
		Use:   "create <leader-id>",
		Short: "Create a guild led by a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, done, err := c.services(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer done()

			guild, err := svcs.Guilds.CreateGuild(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			return c.printJSON(guild)
		},
	}
	create.Flags().StringVar(&req.Name, "name", "", "guild name")
	create.Flags().StringVar(&req.Description, "description", "", "guild description")
	create.Flags().StringVar(&req.Emblem, "emblem", "", "guild emblem")
	_ = create.MarkFlagRequired("name")

	join := &cobra.Command{
		Use:   "join <guild-id> <user-id>",
		Short: "Add a user to a guild",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, done, err := c.services(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer done()

			guild, err := svcs.Guilds.JoinGuild(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return c.printJSON(guild)
		},
	}

	leave := &cobra.Command{
		Use:   "leave <guild-id> <user-id>",
		Short: "Remove a user from a guild",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, done, err := c.services(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer done()

			if err := svcs.Guilds.LeaveGuild(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s left %s\n", args[1], args[0])
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <guild-id>",
		Short: "Print a guild",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, done, err := c.services(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer done()

			guild, err := svcs.Guilds.GetGuild(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printJSON(guild)
		},
	}

	cmd.AddCommand(create, join, leave, show)
	return cmd
}
