package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/flexreminder/flexd/cmd/common"
	"github.com/flexreminder/flexd/pkg/flexcli"
)

func status(ctx *cli.Context) error {
	client, err := flexcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "status", "new_client", err)
		return nil
	}
	defer client.Close()
	res, err := client.Status()
	if err != nil {
		common.PrintRuntimeErr(ctx, "status", "get-status", err)
		return nil
	}
	online := "offline"
	if res.Online {
		online = "online"
	}
	lastSync := "never"
	if !res.LastSync.IsZero() {
		lastSync = res.LastSync.Local().Format("Mon, 02 Jan 2006 15:04")
	}
	fmt.Printf(`Daemon %s
Remote`+"\t\t"+`: %s
Auto sync`+"\t"+`: %t
Syncing now`+"\t"+`: %t
Last sync`+"\t"+`: %s
Reminders`+"\t"+`: %d
Armed timers`+"\t"+`: %d
`,
		res.Version,
		online,
		res.AutoSync,
		res.Syncing,
		lastSync,
		res.Reminders,
		res.Armed,
	)
	return nil
}
