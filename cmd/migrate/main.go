// Command migrate applies or reverts the embedded schema migrations.
//
//	migrate up
//	migrate down
package main

import (
	"fmt"
	"os"

	"github.com/iliyamo/museum-desk/internal/config"
	"github.com/iliyamo/museum-desk/internal/database"
)

func main() {
	dir := database.Up
	if len(os.Args) > 1 {
		dir = database.Direction(os.Args[1])
	}
	if dir != database.Up && dir != database.Down {
		fmt.Fprintf(os.Stderr, "usage: %s [up|down]\n", os.Args[0])
		os.Exit(2)
	}

	if err := database.Migrate(config.LoadDatabase(), dir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("migrations %s: done\n", dir)
}
