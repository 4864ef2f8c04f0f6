package cmd

import "github.com/urfave/cli"

var (
	configPath string

	addTitle      string
	addDueTime    string
	addImportance string

	showActive    bool
	showFired     bool
	showCancelled bool
	showAll       bool

	snoozeMinutes int
)

var daemonFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "config, C",
		Usage:       "path to the configuration file",
		Destination: &configPath,
		EnvVar:      "FLEXD_CONFIG",
	},
}

var addFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "title, t",
		Usage:       "title shown when the reminder fires",
		Destination: &addTitle,
	},
	cli.StringFlag{
		Name:        "due, d",
		Usage:       "explicit due time in RFC3339 format",
		Destination: &addDueTime,
	},
	cli.StringFlag{
		Name:        "importance, i",
		Usage:       "importance level: day, week or month",
		Value:       "day",
		Destination: &addImportance,
	},
}

var lsFlags = []cli.Flag{
	cli.BoolFlag{
		Name:        "active, a",
		Usage:       "show active reminders",
		Destination: &showActive,
	},
	cli.BoolFlag{
		Name:        "fired, f",
		Usage:       "show fired reminders",
		Destination: &showFired,
	},
	cli.BoolFlag{
		Name:        "cancelled, c",
		Usage:       "show cancelled reminders",
		Destination: &showCancelled,
	},
	cli.BoolFlag{
		Name:        "all",
		Usage:       "show every reminder regardless of state",
		Destination: &showAll,
	},
}

var snzFlags = []cli.Flag{
	cli.IntFlag{
		Name:        "minutes, m",
		Usage:       "minutes to push the reminder into the future",
		Value:       30,
		Destination: &snoozeMinutes,
	},
}
