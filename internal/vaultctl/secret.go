package vaultctl

import (
	"fmt"

	"github.com/dmitrijs2005/credvault/internal/server/policy"
	"github.com/dmitrijs2005/credvault/internal/server/services"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSecretCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Generate and score secrets",
	}
	cmd.AddCommand(newSecretGenerateCmd(), newSecretCheckCmd(o))
	return cmd
}

func newSecretGenerateCmd() *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a random secret that satisfies the password policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := services.NewSecretService().Generate(length)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), secret)
			return nil
		},
	}
	cmd.Flags().IntVarP(&length, "length", "n", policy.DefaultGenerateLength, "secret length")
	return cmd
}

func newSecretCheckCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Score a secret against the password policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := o.readSecret(cmd, "Secret: ")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			st := services.NewSecretService().Evaluate(secret)
			_, _ = labelColor(st.Label).Fprintf(out, "%s (%d/5)\n", st.Label, st.Score)
			_, _ = faint.Fprintf(out, "entropy %.1f bits, crack time %s\n", st.Entropy, st.CrackTime)

			if err := policy.Default().Validate(secret); err != nil {
				_, _ = warning.Fprintf(out, "! %v\n", err)
			}
			return nil
		},
	}
}

func labelColor(label string) *color.Color {
	switch label {
	case policy.LabelStrong:
		return success
	case policy.LabelModerate:
		return warning
	default:
		return failure
	}
}
