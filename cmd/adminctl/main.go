// Package main is the entry point for adminctl, the credential-management CLI.
//
// adminctl talks straight to the SQLite database file — the web server does
// not need to be running. It shares DB_PATH (and .env loading) with the
// server so both always point at the same database.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/sakif/pinboard/internal/admincli"
)

func main() {
	// Same optional .env convention as the server, so DB_PATH only has to be
	// configured once per deployment.
	_ = godotenv.Load()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/pinboard.db"
	}

	os.Exit(admincli.Main(os.Args[1:], dbPath, os.Stdout, os.Stderr))
}
