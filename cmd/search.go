package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli"

	"github.com/flexreminder/flexd/cmd/common"
	"github.com/flexreminder/flexd/pkg/flexcli"
)

func search(ctx *cli.Context) error {
	query := strings.Join(ctx.Args(), " ")
	if query == "" {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no search query provided"),
		)
	} else if query == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := flexcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "search", "new_client", err)
		return nil
	}
	defer client.Close()
	res, err := client.Search(query)
	if err != nil {
		common.PrintRuntimeErr(ctx, "search", "search-reminders", err)
		return nil
	}
	if len(res.Reminders) == 0 {
		fmt.Println("No reminders matched.")
		return nil
	}
	printReminders(res.Reminders)
	return nil
}
