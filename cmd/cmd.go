package cmd

import (
	"fmt"
	"runtime"

	"github.com/flexreminder/flexd/cmd/common"
	"github.com/urfave/cli"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var currentBuildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	app := cli.App{
		Name:                  "flex",
		HelpName:              "flex",
		Usage:                 "A link reminder daemon.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "flex <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:   "daemon",
				Usage:  "run the reminder daemon",
				Action: daemon,
				Flags:  daemonFlags,
			},
			{
				Name:   "stop",
				Usage:  "stop a running daemon",
				Action: stop,
			},
			{
				Name:                   "add",
				Aliases:                []string{"a"},
				Usage:                  "save a link reminder",
				Action:                 add,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            AddDescription,
				UseShortOptionHandling: true,
				Flags:                  addFlags,
			},
			{
				Name:                   "list",
				Aliases:                []string{"l"},
				Usage:                  "display reminders",
				Action:                 list,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            ListDescription,
				UseShortOptionHandling: true,
				Flags:                  lsFlags,
			},
			{
				Name:               "cancel",
				Aliases:            []string{"c"},
				Usage:              "dismiss an active reminder",
				Action:             cancel,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        CancelDescription,
			},
			{
				Name:                   "snooze",
				Aliases:                []string{"z"},
				Usage:                  "reschedule a fired reminder",
				Action:                 snooze,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            SnoozeDescription,
				UseShortOptionHandling: true,
				Flags:                  snzFlags,
			},
			{
				Name:               "sync",
				Aliases:            []string{"s"},
				Usage:              "reconcile with the remote service now",
				Action:             syncNow,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        SyncDescription,
			},
			{
				Name:   "stats",
				Usage:  "show reminder counters",
				Action: stats,
			},
			{
				Name:               "search",
				Usage:              "find reminders by text",
				Action:             search,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        SearchDescription,
			},
			{
				Name:   "status",
				Usage:  "show daemon status",
				Action: status,
			},
			{
				Name:               "attach",
				Usage:              "stream live fire events",
				Action:             attach,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        AttachDescription,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of flex",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:                 list,
		Flags:                  lsFlags,
		UseShortOptionHandling: true,
		HideHelp:               true,
		HideVersion:            true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
