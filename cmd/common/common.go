// Package common provides shared helpers for CLI commands: help
// display, error printing and usage error callbacks.
package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli"
)

var (
	showAppHelpAndExit = cli.ShowAppHelpAndExit
	showCommandHelp    = cli.ShowCommandHelp
)

// VersionCmdStr holds the formatted version string displayed by the
// version command. Set once by Execute before the app runs.
var VersionCmdStr string

// GetVersion prints the version string to stdout.
func GetVersion(_ *cli.Context) error {
	fmt.Println(VersionCmdStr)
	return nil
}

// Help displays help for the application or a specific command.
func Help(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" || arg == "help" {
		fmt.Printf("%s %s\n", ctx.App.Name, ctx.App.Version)
		showAppHelpAndExit(ctx, 0)
		return nil
	}
	return showCommandHelp(ctx, arg)
}

// PrintErrWithCmdHelp prints an error followed by the command's help.
func PrintErrWithCmdHelp(ctx *cli.Context, err error) error {
	fmt.Printf("%s: %s\n\n", ctx.App.HelpName, err.Error())
	return showCommandHelp(ctx, ctx.Command.Name)
}

// PrintRuntimeErr prints an error that occurred while executing a
// command, prefixed with the command and operation for context.
func PrintRuntimeErr(ctx *cli.Context, cmd, op string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s(%s): %s: %s\n", ctx.App.HelpName, cmd, op, err.Error())
}

// UsageErrorCallback handles malformed invocations by pointing at the
// command help.
func UsageErrorCallback(ctx *cli.Context, err error, _ bool) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "flag provided but not defined") {
		fmt.Printf("%s: %s\n\n", ctx.App.HelpName, err.Error())
		return showCommandHelp(ctx, ctx.Command.Name)
	}
	return err
}
