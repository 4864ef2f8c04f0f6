package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/flexreminder/flexd/cmd/common"
	"github.com/flexreminder/flexd/pkg/flexcli"
)

func add(ctx *cli.Context) error {
	url := ctx.Args().First()
	if url == "" {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no url provided"),
		)
	} else if url == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := flexcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "add", "new_client", err)
		return nil
	}
	defer client.Close()
	res, err := client.Add(url, &flexcli.AddOpts{
		Title:      addTitle,
		DueTime:    addDueTime,
		Importance: addImportance,
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "add", "save-reminder", err)
		return nil
	}
	fmt.Printf("Reminder saved.\n\nId\t: %s\nTitle\t: %s\nDue\t: %s\n",
		res.ReminderId,
		res.Title,
		res.DueTime.Local().Format("Mon, 02 Jan 2006 15:04"),
	)
	return nil
}
