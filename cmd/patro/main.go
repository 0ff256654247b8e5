/*
main.go - Application entry point

PURPOSE:
  Builds the patro command tree and runs it.

COMMANDS:
  serve                      Start the HTTP API server
  convert ad|bs <date>       Convert a date between calendars
  calendar <year> <month>    Print a BS month grid
  holidays import|seed|list  Manage stored holidays
  version                    Print version

CONFIGURATION:
  --config points at an optional YAML/JSON/TOML file. Environment variables
  and a .env file override it; see internal/config.

EXAMPLES:
  patro serve --config ./patro.yaml
  patro convert ad 2024-10-17
  patro calendar 2081 7 --lang ne
  DB_PATH=./data/patro.db patro holidays import ./nepal-2081.ics

SEE ALSO:
  - cmd/patro/commands: Command implementations
  - api/server.go: Router configuration
*/
package main

import (
	"os"

	"github.com/patro/calendar-engine/cmd/patro/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
