// Package system holds host-side helpers for the tesseract-olap unit. It
// never starts or stops the service itself.
package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/process"
)

// ServiceRunning reports whether a process named name (or whose executable
// has that base name) is alive.
func ServiceRunning(name string) (bool, error) {
	procs, err := process.Processes()
	if err != nil {
		return false, err
	}
	for _, p := range procs {
		if n, err := p.Name(); err == nil && n == name {
			return true, nil
		}
		if exe, err := p.Exe(); err == nil && filepath.Base(exe) == name {
			return true, nil
		}
	}
	return false, nil
}

// IsRoot reports whether the effective user is root. useradd and writes
// under /etc/systemd need it.
func IsRoot() bool { return os.Geteuid() == 0 }

// FreeBytes returns the free space on the filesystem holding path.
func FreeBytes(path string) (uint64, error) {
	u, err := disk.Usage(filepath.Dir(path))
	if err != nil {
		return 0, err
	}
	return u.Free, nil
}

// Guidance lists the commands that bring the configured service up.
func Guidance(service string, running bool) []string {
	lines := []string{
		"sudo systemctl daemon-reload",
	}
	if running {
		lines = append(lines, fmt.Sprintf("sudo systemctl restart %s", service))
	} else {
		lines = append(lines, fmt.Sprintf("sudo systemctl start %s", service))
	}
	lines = append(lines,
		fmt.Sprintf("sudo systemctl enable %s", service),
		fmt.Sprintf("systemctl status %s", service),
	)
	return lines
}
