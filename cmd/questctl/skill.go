package main

import (
	"github.com/spf13/cobra"

	"github.com/forgo/quest/internal/model"
)

func (c *cli) skillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skill",
		Short: "Allocate skill points",
	}

	spend := &cobra.Command{
		Use:       "spend <user-id> <intellect|luck>",
		Short:     "Move one skill point into an attribute",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(model.AttributeIntellect), string(model.AttributeLuck)},
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, done, err := c.services(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer done()

			if err := svcs.Skills.SpendSkillPoint(cmd.Context(), args[0], model.Attribute(args[1])); err != nil {
				return err
			}
			profile, err := svcs.Profiles.GetProfile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printJSON(profile)
		},
	}

	cmd.AddCommand(spend)
	return cmd
}
