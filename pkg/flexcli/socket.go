package flexcli

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/flexreminder/flexd/common"
)

const defaultTCPPort = "4422"

func socketPath() string {
	if path := os.Getenv(common.SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), "flexd.sock")
}

func tcpAddress() string {
	port := os.Getenv(common.TCPPortEnv)
	if port == "" {
		port = defaultTCPPort
	}
	return "localhost:" + port
}

// dial connects to the daemon: unix socket first, TCP fallback. Setting
// FLEXD_FORCE_TCP skips the socket attempt entirely.
func dial() (net.Conn, error) {
	if os.Getenv(common.ForceTCPEnv) == "" {
		conn, unixErr := net.Dial("unix", socketPath())
		if unixErr == nil {
			return conn, nil
		}
		conn, err := net.Dial("tcp", tcpAddress())
		if err != nil {
			return nil, fmt.Errorf("failed to connect: unix socket error: %v; tcp error: %w", unixErr, err)
		}
		return conn, nil
	}
	return net.Dial("tcp", tcpAddress())
}
