package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/flexreminder/flexd/cmd/common"
	"github.com/flexreminder/flexd/pkg/flexcli"
)

func snooze(ctx *cli.Context) error {
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
		common.PrintRuntimeErr(ctx, "snooze", "new_client", err)
		return nil
	}
	defer client.Close()
	res, err := client.Snooze(id, snoozeMinutes)
	if err != nil {
		common.PrintRuntimeErr(ctx, "snooze", "snooze-reminder", err)
		return nil
	}
	fmt.Printf("Snoozed as %s until %s.\n",
		res.ReminderId,
		res.DueTime.Local().Format("Mon, 02 Jan 2006 15:04"),
	)
	return nil
}
