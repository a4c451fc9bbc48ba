package utils

import (
	"runtime"
	"testing"
)

func TestIsNetworkDrive(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"UNC forward slashes", "//server/share/clip.wav", true},
		{"UNC backslashes", `\\server\share\clip.wav`, true},
		{"Linux mount", "/mnt/recorder/clip.wav", true},
		{"Removable media", "/media/sdcard/clip.wav", true},
		{"macOS volume", "/Volumes/AudioMoth/clip.wav", true},
		{"SMB indicator", "/home/user/smb-share/clip.wav", true},
		{"Local home", "/home/user/recordings/clip.wav", false},
		{"Temp dir", "/tmp/clip.wav", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if runtime.GOOS == "windows" && tt.path[0] == '/' && tt.path[1] != '/' {
				t.Skip("POSIX path")
			}
			if got := IsNetworkDrive(tt.path); got != tt.expected {
				t.Errorf("IsNetworkDrive(%q) = %v, expected %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestDefaultWorkers(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		paths     []string
		expected  int
	}{
		{"Explicit count", 3, []string{"/mnt/share"}, 3},
		{"Network path", 0, []string{"/tmp/a", "/mnt/share/b"}, 1},
		{"Local paths", 0, []string{"/tmp/a"}, runtime.NumCPU()},
		{"Negative count", -2, nil, runtime.NumCPU()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultWorkers(tt.requested, tt.paths); got != tt.expected {
				t.Errorf("DefaultWorkers(%d, %v) = %d, expected %d", tt.requested, tt.paths, got, tt.expected)
			}
		})
	}
}
