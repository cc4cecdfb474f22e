// Package vaultctl implements the vaultctl administration command: schema
// migrations, account management and offline secret helpers.
package vaultctl

import (
	"context"
	"io"

	"github.com/dmitrijs2005/credvault/internal/server"
	"github.com/dmitrijs2005/credvault/internal/server/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type options struct {
	configPath    string
	passwordStdin bool

	// openDeps and loadConfig are replaced in tests.
	openDeps   func(context.Context, *config.Config) (*server.Deps, error)
	loadConfig func(args []string) (*config.Config, error)
}

// NewRootCmd builds the vaultctl command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{openDeps: server.OpenDeps, loadConfig: config.Load})
}

func newRootCmd(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "vaultctl",
		Short:         "Administer a credvault server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "path to the server JSON config file")
	root.PersistentFlags().BoolVar(&o.passwordStdin, "password-stdin", false, "read secrets from stdin instead of prompting")

	root.AddCommand(newMigrateCmd(o), newUserCmd(o), newSecretCmd(o))
	return root
}

func (o *options) config() (*config.Config, error) {
	var args []string
	if o.configPath != "" {
		args = []string{"-c", o.configPath}
	}
	return o.loadConfig(args)
}

func (o *options) deps(ctx context.Context) (*server.Deps, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	return o.openDeps(ctx, cfg)
}

var (
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	failure = color.New(color.FgRed)
	faint   = color.New(color.Faint)
)

func printSuccess(w io.Writer, format string, a ...any) {
	_, _ = success.Fprintf(w, format+"\n", a...)
}
