// =============================================================================
// t4bulk - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (t4bulk)
//   ├── installCmd  (t4bulk install)
//   ├── templateCmd (t4bulk template)
//   ├── loginCmd    (t4bulk login)
//   └── versionCmd  (t4bulk version)
//
// The root command owns the global flags and the shared start-up work:
// loading config.yaml, building the logger and resolving the access token.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cmsbulk/t4bulk/internal/config"
	"github.com/cmsbulk/t4bulk/internal/logger"
	"github.com/cmsbulk/t4bulk/internal/prompt"
	"github.com/cmsbulk/t4bulk/internal/t4"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose switches logging to debug level.
var verbose bool

// tokenFlag overrides the stored access token for one invocation.
var tokenFlag string

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "t4bulk",
	Short: "t4bulk - Bulk create and update CMS content from spreadsheets",
	Long: `t4bulk reads workbooks whose rows describe content items and creates or
updates those items through the CMS REST API.

Each sheet starts with two header rows: declared types, then column names.
The reserved columns ContentTypeID, Section ID and Content ID choose the
target of a row; every other column is matched to a content type element.

Example Usage:
  t4bulk login                                  # Store an access token
  t4bulk template --content-type 12             # Export an empty import workbook
  t4bulk install --file news.xlsx --sheet all   # Create/update content from every sheet`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug output",
	)

	rootCmd.PersistentFlags().StringVar(
		&tokenFlag,
		"token",
		"",
		"CMS access token (overrides T4_TOKEN and the token file)",
	)
}

// =============================================================================
// SHARED START-UP
// =============================================================================

// session is what every command needs once flags are parsed.
type session struct {
	cfg *config.MainConfig
	log *logger.Logger

	// ask is the only reader of stdin. Every question goes through it so
	// piped answers are not lost to a second buffer.
	ask *prompt.Prompter
}

// setup loads the configuration and creates a logger tagged with a run id.
func setup() (*session, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := logger.New(level, os.Stderr).With("run", uuid.New().String()[:8])
	log.Debugf("Using configuration %s (base URL %s)", cfgFile, cfg.BaseURL)

	return &session{cfg: cfg, log: log, ask: prompt.New(os.Stdin, os.Stderr)}, nil
}

// resolveToken returns the access token from the flag, the environment or
// the token file. When none is set, the operator is asked for one and it is
// stored for next time.
func (s *session) resolveToken() (string, error) {
	if tokenFlag != "" {
		return tokenFlag, nil
	}

	token, err := config.LoadToken(s.cfg.TokenFile)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, config.ErrMissingToken) {
		return "", err
	}

	answers, err := s.ask.Ask(prompt.Question{
		Name:        "token",
		Description: "Enter your CMS access token",
		Required:    true,
	})
	if err != nil {
		return "", err
	}
	token = answers["token"]
	if err := config.SaveToken(s.cfg.TokenFile, token); err != nil {
		s.log.Warnf("could not store token: %v", err)
	}
	return token, nil
}

// client builds an authorized API client and greets the operator. An
// invalid token is fatal.
func (s *session) client(ctx context.Context) (*t4.Client, error) {
	token, err := s.resolveToken()
	if err != nil {
		return nil, err
	}

	client, err := t4.New(s.cfg.BaseURL, token, s.cfg.Language, t4.WithTimeout(s.cfg.RequestTimeout))
	if err != nil {
		return nil, err
	}

	profile, err := client.Profile(ctx)
	if err != nil {
		if errors.Is(err, t4.ErrUnauthorized) {
			return nil, fmt.Errorf("invalid token, run 't4bulk login' to replace it: %w", err)
		}
		return nil, fmt.Errorf("checking authorization: %w", err)
	}
	s.log.Infof("Hello %s", profile.FirstName)

	return client, nil
}
