package main

import (
	"github.com/spf13/cobra"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage admin users",
	}

	var displayName string
	add := &cobra.Command{
		Use:   "add <username> <password>",
		Short: "Add an admin user; once a user exists the admin API requires authentication",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := backends.Users.Create(args[0], args[1], displayName)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		},
	}
	add.Flags().StringVar(&displayName, "name", "", "display name of the user")

	list := &cobra.Command{
		Use:   "list",
		Short: "List admin users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := backends.Users.List()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), users)
		},
	}

	setDisabled := func(disabled bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			u, err := backends.Users.Update(args[0], nil, nil, &disabled)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		}
	}
	disable := &cobra.Command{
		Use:   "disable <username>",
		Short: "Block the login of a user",
		Args:  cobra.ExactArgs(1),
		RunE:  setDisabled(true),
	}
	enable := &cobra.Command{
		Use:   "enable <username>",
		Short: "Allow the login of a disabled user",
		Args:  cobra.ExactArgs(1),
		RunE:  setDisabled(false),
	}

	remove := &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete an admin user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return backends.Users.Delete(args[0])
		},
	}

	cmd.AddCommand(add, list, disable, enable, remove)
	return cmd
}
