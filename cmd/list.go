package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli"

	"github.com/flexreminder/flexd/cmd/common"
	"github.com/flexreminder/flexd/pkg/flexcli"
	"github.com/flexreminder/flexd/pkg/flexlib"
)

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := flexcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "new_client", err)
		return nil
	}
	defer client.Close()

	opts := &flexcli.ListOpts{
		ShowActive:    showActive,
		ShowFired:     showFired,
		ShowCancelled: showCancelled,
	}
	if showAll {
		opts = &flexcli.ListOpts{}
	} else if !showActive && !showFired && !showCancelled {
		opts.ShowActive = true
	}
	res, err := client.List(opts)
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "list-reminders", err)
		return nil
	}
	if len(res.Reminders) == 0 {
		fmt.Println("No reminders found.")
		return nil
	}
	printReminders(res.Reminders)
	return nil
}

func printReminders(recs []*flexlib.Record) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tDUE\tTITLE\tURL")
	for _, r := range recs {
		title := r.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.Id,
			r.Status,
			r.DueTime.Local().Format("02 Jan 15:04"),
			title,
			r.Url,
		)
	}
	w.Flush()
}
