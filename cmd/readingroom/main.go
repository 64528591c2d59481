// Command readingroom is the maintenance CLI for the reading-room
// reservation store. See internal/cli for the available commands.
package main

import (
	"os"

	"github.com/arkivdk/readingroom/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Stderr.WriteString("error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
