package cmd

import (
	"fmt"
	"os"
	"syscall"

	"github.com/urfave/cli"

	"github.com/flexreminder/flexd/cmd/common"
	"github.com/flexreminder/flexd/pkg/flexlib"
)

func stop(ctx *cli.Context) error {
	configDir, err := flexlib.ConfigDir()
	if err != nil {
		common.PrintRuntimeErr(ctx, "stop", "config_dir", err)
		return nil
	}
	pid, err := readPidFile(configDir)
	if err != nil {
		common.PrintRuntimeErr(ctx, "stop", "pid_file", err)
		return nil
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		common.PrintRuntimeErr(ctx, "stop", "find_process", err)
		return nil
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		common.PrintRuntimeErr(ctx, "stop", "signal", err)
		return nil
	}
	fmt.Println("Daemon stopped.")
	return nil
}
