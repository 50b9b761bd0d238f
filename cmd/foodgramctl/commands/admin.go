// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/foodgram/cmd/foodgramctl/output"
	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/validation"
)

var (
	adminEmail    string
	adminUsername string
	adminPassword string
)

type adminResult struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Created  bool   `json:"created"`
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator or promote an existing account",
	Long: `Create an administrator account. When the email already belongs to a
user, that user is promoted and keeps their password.

The password may be given with --password or the ADMIN_PASSWORD variable.

Examples:
  foodgramctl create-admin --email chef@example.org --username chef --password 's3cret-pass'`,
	Args: cobra.NoArgs,
	RunE: runCreateAdmin,
}

func init() {
	rootCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Administrator email (required)")
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Username for a new account (required)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password for a new account")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("username")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	email := strings.ToLower(strings.TrimSpace(adminEmail))
	if err := validation.GetValidator().Var(email, "required,email,max=254"); err != nil {
		return fmt.Errorf("invalid email %q", adminEmail)
	}
	if err := validation.GetValidator().Var(adminUsername, "required,username,max=150"); err != nil {
		return fmt.Errorf("invalid username %q", adminUsername)
	}

	db, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(db)

	password := adminPassword
	if password == "" {
		password = cfg.Security.AdminPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user, created, err := db.EnsureAdmin(cmd.Context(), email, adminUsername, hash)
	if err != nil {
		return err
	}

	res := adminResult{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
		Created:  created,
	}
	w := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(w, res)
	}
	if created {
		output.Success(w, "Created administrator %s", res.Username)
	} else {
		output.Success(w, "Promoted %s to administrator", res.Username)
	}
	output.Field(w, "id", res.ID)
	output.Field(w, "email", res.Email)
	if !created && adminPassword != "" {
		output.Warning(w, "Existing password kept; --password was ignored")
	}
	return nil
}
