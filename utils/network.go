package utils

import (
	"path/filepath"
	"runtime"
	"strings"
)

// IsNetworkDrive detects if a file path is on a network-mounted drive
func IsNetworkDrive(filePath string) bool {
	// Check Windows UNC paths first, before converting to absolute path
	if strings.HasPrefix(filePath, "//") || strings.HasPrefix(filePath, "\\\\") {
		return true
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return false
	}

	// Field recorders are usually read straight off a mounted card or share
	networkPrefixes := []string{
		"/mnt/",     // Linux NFS/SMB mounts
		"/media/",   // Linux removable/network media
		"/Volumes/", // macOS network volumes
	}

	for _, prefix := range networkPrefixes {
		if strings.HasPrefix(absPath, prefix) {
			return true
		}
	}

	lowerPath := strings.ToLower(absPath)
	for _, indicator := range []string{"nfs", "cifs", "smb", "webdav", "sftp"} {
		if strings.Contains(lowerPath, indicator) {
			return true
		}
	}

	return false
}

// DefaultWorkers picks a worker count for batch jobs over paths.
// An explicit positive count wins; network paths get a single worker.
func DefaultWorkers(requested int, paths []string) int {
	if requested > 0 {
		return requested
	}
	for _, p := range paths {
		if IsNetworkDrive(p) {
			return 1
		}
	}
	return runtime.NumCPU()
}
