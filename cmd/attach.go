package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/flexreminder/flexd/cmd/common"
	flexdcommon "github.com/flexreminder/flexd/common"
	"github.com/flexreminder/flexd/pkg/flexcli"
)

func attach(ctx *cli.Context) error {
	client, err := flexcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "attach", "new_client", err)
		return nil
	}
	defer client.Close()
	st, err := client.Attach()
	if err != nil {
		common.PrintRuntimeErr(ctx, "attach", "client-attach", err)
		return nil
	}
	fmt.Printf(">> Attached to flexd %s, waiting for reminders <<\n", st.Version)

	client.Dispatcher().Register(flexdcommon.UPDATE_FIRED, flexcli.NewFiredHandler("", func(v *flexdcommon.FiredResponse) error {
		switch v.Action {
		case flexdcommon.ReminderFired:
			fmt.Printf("\nREMINDER: %s\n%s\n(id %s)\n", v.Title, v.Url, v.ReminderId)
		case flexdcommon.ReminderSnoozed:
			fmt.Printf("\nSnoozed: %s (id %s)\n", v.Title, v.ReminderId)
		case flexdcommon.ReminderRemoved:
			fmt.Printf("\nRemoved: %s (id %s)\n", v.Title, v.ReminderId)
		}
		return nil
	}))
	return client.Listen()
}
