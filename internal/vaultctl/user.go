package vaultctl

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUserCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage vault accounts",
	}
	cmd.AddCommand(newUserAddCmd(o), newUserDeleteCmd(o))
	return cmd
}

func newUserAddCmd(o *options) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Register an account and create its vault key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := o.readSecret(cmd, "Master password: ")
			if err != nil {
				return err
			}

			deps, err := o.deps(cmd.Context())
			if err != nil {
				return err
			}
			defer deps.Close()

			user, err := deps.Users.Register(cmd.Context(), args[0], email, password)
			if err != nil {
				return fmt.Errorf("register %s: %w", args[0], err)
			}
			printSuccess(cmd.OutOrStdout(), "✓ user %s created with id %d", user.UserName, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUserDeleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete an account, its credentials and its vault key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := o.deps(cmd.Context())
			if err != nil {
				return err
			}
			defer deps.Close()

			user, err := deps.Manager.Users(deps.DB).FindByUsername(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("find %s: %w", args[0], err)
			}
			if err := deps.Users.DeleteAccount(cmd.Context(), user.ID); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "✓ user %s deleted", user.UserName)
			return nil
		},
	}
}
