package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cmsbulk/t4bulk/internal/config"
	"github.com/cmsbulk/t4bulk/internal/prompt"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a CMS access token",
	Long: `The login command asks for an access token, checks it against the CMS and
stores it in the token file (token_file in config.yaml, .t4env by default).`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	s, err := setup()
	if err != nil {
		return err
	}

	token := tokenFlag
	if token == "" {
		answers, err := s.ask.Ask(prompt.Question{
			Name:        "token",
			Description: "Enter your CMS access token",
			Required:    true,
		})
		if err != nil {
			return err
		}
		token = answers["token"]
	}

	// Check before saving so a typo does not replace a working token.
	tokenFlag = token
	if _, err := s.client(context.Background()); err != nil {
		return err
	}

	if err := config.SaveToken(s.cfg.TokenFile, token); err != nil {
		return err
	}
	s.log.Successf("Token saved to %s", s.cfg.TokenFile)
	return nil
}
