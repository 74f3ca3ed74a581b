package main

import (
	"github.com/joho/godotenv"

	"github.com/tutorctl/tutorctl/cmd"
)

// Set via -ldflags at release build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Optional .env for LLM_API_KEY etc.; absence is fine.
	_ = godotenv.Load()

	cmd.Execute(version, commit, date)
}
