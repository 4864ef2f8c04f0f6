package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/flexreminder/flexd/cmd/common"
	"github.com/flexreminder/flexd/pkg/flexcli"
)

func stats(ctx *cli.Context) error {
	client, err := flexcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "stats", "new_client", err)
		return nil
	}
	defer client.Close()
	res, err := client.Stats()
	if err != nil {
		common.PrintRuntimeErr(ctx, "stats", "get-stats", err)
		return nil
	}
	online := "offline"
	if res.Online {
		online = "online"
	}
	fmt.Printf(`Reminders
Total`+"\t\t"+`: %d
Active`+"\t\t"+`: %d
Fired`+"\t\t"+`: %d
Cancelled`+"\t"+`: %d
Armed timers`+"\t"+`: %d
Remote`+"\t\t"+`: %s
`,
		res.Total,
		res.Active,
		res.Fired,
		res.Cancelled,
		res.Armed,
		online,
	)
	if !res.LastSync.IsZero() {
		fmt.Printf("Last sync\t: %s\n", res.LastSync.Local().Format("Mon, 02 Jan 2006 15:04"))
	}
	return nil
}
