package utils

import (
	"fmt"
	"os/exec"
	"runtime"
)

// KnownPlayers are the external players tried, in order, when none is configured
var KnownPlayers = []string{"ffplay", "afplay", "aplay", "paplay"}

// FindPlayer returns the path of the preferred player, or of the first known player in PATH
func FindPlayer(preferred string) (string, error) {
	if preferred != "" {
		path, err := exec.LookPath(preferred)
		if err != nil {
			return "", fmt.Errorf("%s not found in PATH. %s", preferred, getInstallationInstructions())
		}
		return path, nil
	}

	for _, name := range KnownPlayers {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no audio player found in PATH (tried %v). %s", KnownPlayers, getInstallationInstructions())
}

// getInstallationInstructions returns platform-specific installation instructions
func getInstallationInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install with: brew install ffmpeg"
	case "linux":
		return "Install with: apt-get install ffmpeg (Ubuntu/Debian) or yum install ffmpeg (CentOS/RHEL)"
	case "windows":
		return "Download from https://ffmpeg.org/download.html and add to PATH"
	default:
		return "Download from https://ffmpeg.org/download.html"
	}
}
