package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/flexreminder/flexd/cmd/common"
	"github.com/flexreminder/flexd/pkg/flexcli"
)

func syncNow(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := flexcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "sync", "new_client", err)
		return nil
	}
	defer client.Close()
	res, err := client.Sync()
	if err != nil {
		common.PrintRuntimeErr(ctx, "sync", "sync-now", err)
		return nil
	}
	if !res.Online {
		fmt.Println("Sync attempted, but the remote service is unreachable.")
		return nil
	}
	fmt.Printf("Synced at %s.\n", res.LastSync.Local().Format("15:04:05"))
	return nil
}
