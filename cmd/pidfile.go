package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const pidFileName = "flexd.pid"

func pidFilePath(configDir string) string {
	return filepath.Join(configDir, pidFileName)
}

func writePidFile(configDir string) error {
	pid := strconv.Itoa(os.Getpid())
	return os.WriteFile(pidFilePath(configDir), []byte(pid+"\n"), 0644)
}

func readPidFile(configDir string) (int, error) {
	data, err := os.ReadFile(pidFilePath(configDir))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("malformed pid file: %w", err)
	}
	return pid, nil
}

func removePidFile(configDir string) {
	_ = os.Remove(pidFilePath(configDir))
}
