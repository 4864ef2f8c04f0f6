// Package common provides the types and constants shared by the flexd
// client-server communication layer.
package common

// Environment variable names for connection overrides.
const (
	// SocketPathEnv overrides the unix socket path.
	SocketPathEnv = "FLEXD_SOCKET_PATH"

	// TCPPortEnv overrides the TCP fallback port.
	TCPPortEnv = "FLEXD_TCP_PORT"

	// ForceTCPEnv forces clients to connect over TCP.
	ForceTCPEnv = "FLEXD_FORCE_TCP"

	// DebugEnv enables debug logging.
	DebugEnv = "FLEXD_DEBUG"
)
