package server

import (
	"os"
	"path/filepath"

	"github.com/flexreminder/flexd/common"
)

func socketPath() string {
	if path := os.Getenv(common.SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), "flexd.sock")
}
