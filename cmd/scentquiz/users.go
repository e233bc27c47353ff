package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/container"
	"github.com/spf13/cobra"
)

var keepUser bool

func init() {
	usersDeleteCmd.Flags().BoolVar(&keepUser, "keep-user", false, "delete quiz data but keep the user row")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersDeleteCmd)
	rootCmd.AddCommand(usersCmd)
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect and delete stored users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users with their session counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withContainer(ctx, func(c *container.Container) error {
			users, err := c.UserContainer.Service.ListUsers(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tAGE\tGENDER\tSESSIONS\tCOMPLETED")
			for _, u := range users {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\t%d\n",
					u.ID, u.Name, u.Email, u.Age, u.Gender, u.SessionCount, u.CompletedCount)
			}
			return tw.Flush()
		})
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <user-id>",
	Short: "Delete a user and everything recorded for them",
	Long: `Delete a user together with their sessions, responses, formulas and
analytics. With --keep-user only the quiz data is removed.

Examples:
  scentquiz users delete 7d0c7a52-3f4e-4c55-9f57-2f0d6f1f8d0e
  scentquiz users delete --keep-user 7d0c7a52-3f4e-4c55-9f57-2f0d6f1f8d0e`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", args[0], err)
		}

		ctx := cmd.Context()
		return withContainer(ctx, func(c *container.Container) error {
			// The CLI acts as no particular user.
			report, err := c.UserContainer.Service.DeleteUser(ctx, uuid.Nil, id, keepUser)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"Deleted %d analytics, %d formulas, %d responses, %d sessions, %d users\n",
				report.Analytics, report.Formulas, report.Responses, report.Sessions, report.Users)
			return nil
		})
	},
}
