// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Command foodgramctl runs offline maintenance against the Foodgram store:
// ingredient catalog imports, schema inspection, short links and admin
// accounts. It reads the same configuration file and environment as the
// server but needs no JWT secret.
package main

import "github.com/tomtom215/foodgram/cmd/foodgramctl/commands"

func main() {
	commands.Execute()
}
