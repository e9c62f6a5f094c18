// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for the Signet
// application using the Cobra library. It defines the root command,
// subcommands (like account, backup, passphrase), flags, and the main
// entry point for execution.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/toeirei/signet/internal/config"
	"github.com/toeirei/signet/internal/db"
	"github.com/toeirei/signet/internal/i18n"
	"github.com/toeirei/signet/internal/keypair"
	"github.com/toeirei/signet/internal/logging"
	"github.com/toeirei/signet/internal/model"
	"github.com/toeirei/signet/internal/security"
	"github.com/toeirei/signet/internal/tui"
	"github.com/toeirei/signet/internal/wallet"
)

var version = "dev" // set by the linker

var (
	cfgFile   string
	verbose   bool
	appConfig config.Config
)

// nopNavigator satisfies the workflow controller's navigation dependency
// for the CLI, where there is no history to mutate.
type nopNavigator struct{}

func (nopNavigator) Push(string)    {}
func (nopNavigator) Replace(string) {}

// stderrSink prints advisory workflow errors without aborting the command.
type stderrSink struct{}

func (stderrSink) Capture(err error) {
	fmt.Fprintln(os.Stderr, i18n.T("cli.advisory", err))
}

func newController() *wallet.Controller {
	return wallet.New(cliStore{}, nopNavigator{}, stderrSink{}, appConfig.BackupDir)
}

// cliStore adapts the package-level db accessors to the controller.
type cliStore struct{}

func (cliStore) GetAllAccounts() ([]model.Account, error) {
	return db.GetAllAccounts()
}

func (cliStore) ImportAccount(alias, publicKey string, secret security.Secret, algorithm string, isImported bool) (int, error) {
	return db.ImportAccount(alias, publicKey, secret, algorithm, isImported)
}

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	logging.SetDebug(verbose)

	defaults := map[string]any{
		"database.type": "sqlite",
		"database.dsn":  "./signet.db",
		"language":      "en",
		"backup_dir":    ".",
	}

	var err error
	appConfig, err = config.LoadConfig(cmd, defaults, cfgFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// The hyphenated flag names do not map onto the nested config keys,
	// so apply them by hand when set.
	flags := cmd.Root().PersistentFlags()
	if v, _ := flags.GetString("db-type"); v != "" {
		appConfig.Database.Type = v
		viper.Set("database.type", v)
	}
	if v, _ := flags.GetString("db-dsn"); v != "" {
		appConfig.Database.Dsn = v
		viper.Set("database.dsn", v)
	}
	if v, _ := flags.GetString("backup-dir"); v != "" {
		appConfig.BackupDir = v
		viper.Set("backup_dir", v)
	}
	if v, _ := flags.GetString("lang"); v != "" {
		appConfig.Language = v
		viper.Set("language", v)
	}

	// First run: persist a default config so later runs have a file to edit.
	if viper.ConfigFileUsed() == "" && cfgFile == "" {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			logging.Debugf("could not write default config file: %v", writeErr)
		}
	}

	i18n.Init(appConfig.Language)

	if !db.IsInitialized() {
		if err := db.InitDB(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			return errors.New(i18n.T("cli.error_init_db", err))
		}
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:               "signet",
	Short:             "Signet keypair wallet account manager",
	Long:              "Signet manages named keypair wallet accounts: create, import, reveal and back them up from the terminal.",
	PersistentPreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run()
	},
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage wallet accounts",
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wallet accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts, err := db.GetAllAccounts()
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			fmt.Println(i18n.T("cli.no_accounts"))
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, a := range accounts {
			origin := ""
			if a.IsImported {
				origin = i18n.T("accounts.imported_tag")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Alias, a.Algorithm, model.AbbreviateKey(a.PublicKey), origin)
		}
		return w.Flush()
	},
}

var (
	createAlgorithm string
	createDownload  bool
)

var accountCreateCmd = &cobra.Command{
	Use:   "create <alias>",
	Short: "Generate a new keypair and store it under an alias",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		alg, err := keypair.ParseAlgorithm(createAlgorithm)
		if err != nil {
			return err
		}
		kp, err := keypair.Generate(alg)
		if err != nil {
			return err
		}
		st := wallet.CreateState{
			Alias:        args[0],
			Algorithm:    alg.String(),
			PublicKeyHex: kp.PublicKeyHex(),
			SecretKeyB64: keypair.EncodeSecretKeyBase64(kp.SecretKey()),
			DownloadKeys: createDownload,
		}
		if err := newController().CreateAccount(st); err != nil {
			return err
		}
		fmt.Println(i18n.T("cli.account_created", args[0], alg.String()))
		return nil
	},
}

var importAlgorithm string

var accountImportCmd = &cobra.Command{
	Use:   "import <alias> <keyfile>",
	Short: "Import a secret key file under an alias",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fallback, err := keypair.ParseAlgorithm(importAlgorithm)
		if err != nil {
			return err
		}
		kp, err := keypair.ReadSecretKeyFile(args[1], fallback)
		if err != nil {
			return errors.New(i18n.T("cli.error_read_key", args[1], err))
		}
		st := wallet.ImportState{
			Alias:     args[0],
			FilePath:  args[1],
			SecretKey: kp.SecretKey(),
			Algorithm: kp.Algorithm().String(),
		}
		if err := newController().ImportAccount(st); err != nil {
			return err
		}
		fmt.Println(i18n.T("cli.account_imported", args[0], kp.Algorithm().String()))
		return nil
	},
}

var accountExportCmd = &cobra.Command{
	Use:   "export <alias>",
	Short: "Write an account's key files to the backup directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := db.GetAccountByAlias(args[0])
		if err != nil {
			return err
		}
		alg, err := keypair.ParseAlgorithm(a.Algorithm)
		if err != nil {
			return err
		}
		var kp keypair.KeyPair
		err = a.SecretKey.Use(func(b []byte) error {
			var ferr error
			kp, ferr = keypair.FromSecretKey(alg, b)
			return ferr
		})
		if err != nil {
			return err
		}
		if err := newController().ExportBackupFiles(a.Alias, kp); err != nil {
			return err
		}
		fmt.Println(i18n.T("cli.account_exported", a.Alias, appConfig.BackupDir))
		return nil
	},
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete <alias>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := db.GetAccountByAlias(args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteAccount(a.ID); err != nil {
			return err
		}
		fmt.Println(i18n.T("cli.account_deleted", a.Alias))
		return nil
	},
}

var accountRenameCmd = &cobra.Command{
	Use:   "rename <alias> <new-alias>",
	Short: "Rename an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := db.GetAccountByAlias(args[0])
		if err != nil {
			return err
		}
		if err := db.RenameAccount(a.ID, args[1]); err != nil {
			return err
		}
		fmt.Println(i18n.T("cli.account_renamed", args[0], args[1]))
		return nil
	},
}

var passphraseCmd = &cobra.Command{
	Use:   "passphrase",
	Short: "Manage the passphrase that gates secret reveals",
}

var passphraseSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set a new reveal passphrase",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(i18n.T("cli.passphrase_prompt"))
		first, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}
		fmt.Print(i18n.T("cli.passphrase_confirm"))
		second, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}
		if string(first) != string(second) {
			return errors.New(i18n.T("cli.passphrase_mismatch"))
		}
		if len(first) == 0 {
			return errors.New(i18n.T("cli.passphrase_empty"))
		}
		pass := security.FromBytes(first)
		defer pass.Zero()
		salt, hash, err := security.HashPassphrase(pass)
		if err != nil {
			return err
		}
		if err := db.SetPassphraseVerifier(salt, hash); err != nil {
			return err
		}
		fmt.Println(i18n.T("cli.passphrase_set"))
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup <file>",
	Short: "Write a compressed backup of all accounts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.BackupToFile(db.GetStore(), args[0]); err != nil {
			return err
		}
		fmt.Println(i18n.T("cli.backup_done", args[0]))
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore accounts from a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		restored, skipped, err := db.RestoreFromFile(db.GetStore(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(i18n.T("cli.restore_done", restored, skipped))
		return nil
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := db.GetAllAuditLogEntries()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Timestamp, e.Action, e.Details)
		}
		return w.Flush()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the Signet version",
	// Version output must not require a working config or database.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		v := version
		if v == "dev" {
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
				v = info.Main.Version
			}
		}
		fmt.Printf("signet %s\n", v)
	},
}

// Execute runs the CLI entrypoint. The root main package calls this and
// handles process exit.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is signet.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("db-type", "", "database type (sqlite, postgres, mysql)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string")
	rootCmd.PersistentFlags().String("lang", "", "interface language")
	rootCmd.PersistentFlags().String("backup-dir", "", "directory for exported key files")

	defaultAlg := keypair.Ed25519.String()
	accountCreateCmd.Flags().StringVarP(&createAlgorithm, "algorithm", "a", defaultAlg, "key algorithm ("+strings.Join(algorithmNames(), ", ")+")")
	accountCreateCmd.Flags().BoolVarP(&createDownload, "download", "d", false, "also write key files to the backup directory")
	accountImportCmd.Flags().StringVarP(&importAlgorithm, "algorithm", "a", defaultAlg, "fallback algorithm for raw key files")

	accountCmd.AddCommand(accountListCmd, accountCreateCmd, accountImportCmd, accountExportCmd, accountDeleteCmd, accountRenameCmd)
	passphraseCmd.AddCommand(passphraseSetCmd)
	rootCmd.AddCommand(accountCmd, passphraseCmd, backupCmd, restoreCmd, auditCmd, versionCmd)
}

func algorithmNames() []string {
	algs := keypair.Algorithms()
	out := make([]string, 0, len(algs))
	for _, a := range algs {
		out = append(out, a.String())
	}
	return out
}
