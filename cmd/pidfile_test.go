package cmd

import (
	"os"
	"testing"
)

func TestPidFileRoundTrip(t *testing.T) {
	dir := t.TempDir()

	if err := writePidFile(dir); err != nil {
		t.Fatal(err)
	}
	pid, err := readPidFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if pid != os.Getpid() {
		t.Errorf("pid = %d, want %d", pid, os.Getpid())
	}

	removePidFile(dir)
	if _, err := readPidFile(dir); err == nil {
		t.Error("expected error reading removed pid file")
	}
}

func TestReadPidFileMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(pidFilePath(dir), []byte("not a pid\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readPidFile(dir); err == nil {
		t.Error("expected error for malformed pid file")
	}
}
