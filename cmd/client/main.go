// Package main is the command-line client managing the local account collection.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/atinyakov/AccountKeeper/internal/app"
	"github.com/atinyakov/AccountKeeper/internal/client/shell"
	"github.com/atinyakov/AccountKeeper/internal/config"
	"github.com/atinyakov/AccountKeeper/internal/logger"
	"github.com/atinyakov/AccountKeeper/internal/models"
	"github.com/atinyakov/AccountKeeper/internal/service"
)

var (
	version   string
	buildDate string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The wire is opened lazily before any
// subcommand runs and closed afterwards.
func newRootCmd() *cobra.Command {
	opts := config.Default()
	opts.LogLevel = "warn"
	var (
		w   *app.Wire
		log = logger.New()
	)

	root := &cobra.Command{
		Use:           "accounts",
		Short:         "Manage stored login accounts",
		Version:       fmt.Sprintf("%s (built %s)", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A")),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.Resolve(); err != nil {
				return err
			}
			if err := log.Init(opts.LogLevel); err != nil {
				return err
			}
			var err error
			w, err = app.NewWire(cmd.Context(), opts, log.Log)
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			_ = log.Log.Sync()
			if w == nil {
				return nil
			}
			return w.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.Config, "config", "c", opts.Config, "path to config file")
	pf.StringVar(&opts.Backend, "backend", opts.Backend, "storage backend: file | memory | postgres | redis")
	pf.StringVar(&opts.StoragePath, "path", opts.StoragePath, "storage file of the file backend")
	pf.StringVar(&opts.DatabaseDSN, "dsn", opts.DatabaseDSN, "postgres connection string")
	pf.StringVar(&opts.RedisAddr, "redis", opts.RedisAddr, "redis address")
	pf.StringVar(&opts.Slot, "slot", opts.Slot, "storage slot name")
	pf.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "log level")

	accounts := func() *service.AccountManager { return w.Accounts }

	root.AddCommand(
		listCmd(accounts),
		addCmd(accounts),
		updateCmd(accounts),
		removeCmd(accounts),
		validateCmd(accounts),
		labelsCmd(),
		shellCmd(accounts),
	)
	return root
}

func listCmd(accounts func() *service.AccountManager) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored accounts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			shell.PrintAccounts(cmd.OutOrStdout(), accounts().List())
		},
	}
}

func addCmd(accounts func() *service.AccountManager) *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Add a blank local account and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			acc, err := accounts().Add(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), acc.ID)
			return nil
		},
	}
}

func updateCmd(accounts func() *service.AccountManager) *cobra.Command {
	var (
		label, typ, login, password string
		noPassword                  bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an account; unset flags are left as they are",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch models.Patch
			flags := cmd.Flags()
			if flags.Changed("label") {
				patch.Label = &label
			}
			if flags.Changed("type") {
				t := models.AccountType(typ)
				if !t.Valid() {
					return fmt.Errorf("unknown account type %q", typ)
				}
				patch.Type = &t
			}
			if flags.Changed("login") {
				patch.Login = &login
			}
			switch {
			case noPassword:
				patch.SetPassword(nil)
			case flags.Changed("password"):
				patch.SetPassword(&password)
			}

			if _, err := accounts().Update(cmd.Context(), args[0], patch); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "labels separated by ';'")
	cmd.Flags().StringVar(&typ, "type", "", "account type: ldap | local")
	cmd.Flags().StringVar(&login, "login", "", "login")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().BoolVar(&noPassword, "no-password", false, "remove the stored password")
	cmd.MarkFlagsMutuallyExclusive("password", "no-password")
	return cmd
}

func removeCmd(accounts func() *service.AccountManager) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove an account",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := accounts().Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account removed")
			return nil
		},
	}
}

func validateCmd(accounts func() *service.AccountManager) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <id>",
		Short: "Check an account and store the resulting field errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, ok, err := accounts().ValidateByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			shell.PrintValidation(cmd.OutOrStdout(), acc, ok)
			if !ok {
				return fmt.Errorf("account %s is invalid", acc.ID)
			}
			return nil
		},
	}
}

func labelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels <text>",
		Short: "Show how label text is split",
		Args:  cobra.ExactArgs(1),
		// Parsing needs no storage.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			for _, l := range service.ParseLabels(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), l.Text)
			}
		},
	}
}

func shellCmd(accounts func() *service.AccountManager) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			shell.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), accounts())
		},
	}
}
