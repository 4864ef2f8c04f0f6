package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/flexreminder/flexd/cmd/common"
	"github.com/flexreminder/flexd/pkg/flexcli"
)

func cancel(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no reminder id provided"),
		)
	} else if id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := flexcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "cancel", "new_client", err)
		return nil
	}
	defer client.Close()
	if _, err := client.Cancel(id); err != nil {
		common.PrintRuntimeErr(ctx, "cancel", "cancel-reminder", err)
		return nil
	}
	fmt.Println("Reminder cancelled.")
	return nil
}
