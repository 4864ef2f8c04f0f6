package main

import (
	"fmt"
	"os"

	"github.com/flexreminder/flexd/cmd"
)

var (
	version   string
	commit    string
	date      string
	buildType string = "daemon"
)

// flexd is the daemon-only entry point: it runs the daemon command
// directly without the CLI surface.
func main() {
	args := append([]string{os.Args[0], "daemon"}, os.Args[1:]...)
	err := cmd.Execute(args, cmd.BuildArgs{
		Version:   version,
		Commit:    commit,
		Date:      date,
		BuildType: buildType,
	})
	if err != nil {
		fmt.Printf("flexd: %s\n", err.Error())
		os.Exit(1)
	}
}
