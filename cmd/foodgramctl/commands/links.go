// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/foodgram/cmd/foodgramctl/output"
	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/models"
	"github.com/tomtom215/foodgram/internal/shortlink"
	"github.com/tomtom215/foodgram/internal/validation"
)

var shortenCmd = &cobra.Command{
	Use:   "shorten <url>",
	Short: "Create or look up the short link for a URL",
	Long: `Return the short link for an http(s) URL, creating it when the URL has
not been shortened before. The absolute short URL uses PUBLIC_URL when set.`,
	Args: cobra.ExactArgs(1),
	RunE: runShorten,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <token>",
	Short: "Show the URL behind a short link token",
	Long:  `Print the stored link for token. The request counter is not incremented.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	rootCmd.AddCommand(shortenCmd)
	rootCmd.AddCommand(resolveCmd)
}

func runShorten(cmd *cobra.Command, args []string) error {
	fullURL := strings.TrimSpace(args[0])
	if err := validation.GetValidator().Var(fullURL, "required,http_url,max=2048"); err != nil {
		return fmt.Errorf("invalid url %q", fullURL)
	}

	db, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(db)

	link, created, err := db.CreateShortLink(cmd.Context(), fullURL)
	if err != nil {
		return err
	}
	link.ShortURL = shortURL(cfg, link.Token)
	return printLink(cmd, link, created)
}

func runResolve(cmd *cobra.Command, args []string) error {
	db, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(db)

	token := args[0]
	if !shortlink.WellFormed(token) {
		return fmt.Errorf("malformed token %q", token)
	}
	link, err := db.GetShortLink(cmd.Context(), token)
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("no link for token %q", token)
	}
	if err != nil {
		return err
	}
	link.ShortURL = shortURL(cfg, link.Token)
	return printLink(cmd, link, false)
}

func printLink(cmd *cobra.Command, link *models.ShortLink, created bool) error {
	w := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(w, link)
	}
	switch {
	case created:
		output.Success(w, "Created %s", link.ShortURL)
	case !link.IsActive:
		output.Warning(w, "%s is deactivated", link.ShortURL)
	default:
		output.Info(w, "%s", link.ShortURL)
	}
	output.Field(w, "url", link.FullURL)
	output.Field(w, "requests", link.RequestsCount)
	return nil
}

// shortURL is relative when no public URL is configured.
func shortURL(cfg *config.Config, token string) string {
	return strings.TrimRight(cfg.Server.PublicURL, "/") + "/l/" + token
}
