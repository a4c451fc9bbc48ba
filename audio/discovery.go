package audio

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// ScanOptions controls which files FindAudioFiles returns.
type ScanOptions struct {
	// Extensions in the order results are grouped, e.g. [".wav", ".mp3"].
	Extensions []string
	// SkipDirs are directory names directly under the root that are not scanned.
	// The label folders go here so already sorted clips are not listed again.
	SkipDirs []string
}

// FindAudioFiles scans a directory recursively for audio files.
// Results are grouped by extension in the configured order and sorted within each group.
func FindAudioFiles(directory string, opts ScanOptions) ([]string, error) {
	var files []string
	var err error

	// Use fd if available for better performance, otherwise fall back to filepath.WalkDir
	if isFdAvailable() {
		files, err = findAudioFilesWithFd(directory, opts)
		if err != nil {
			// If fd fails, fall back to the standard method
			files, err = findAudioFilesWithWalkDir(directory, opts)
		}
	} else {
		files, err = findAudioFilesWithWalkDir(directory, opts)
	}

	if err != nil {
		return nil, err
	}

	return orderByExtension(files, opts.Extensions), nil
}

// isFdAvailable checks if the 'fd' command is available in PATH
func isFdAvailable() bool {
	_, err := exec.LookPath("fd")
	return err == nil
}

// findAudioFilesWithWalkDir uses filepath.WalkDir to find audio files (fallback method)
func findAudioFilesWithWalkDir(directory string, opts ScanOptions) ([]string, error) {
	var files []string
	root := filepath.Clean(directory)

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && filepath.Dir(path) == root && isSkipped(d.Name(), opts.SkipDirs) {
				return filepath.SkipDir
			}
			return nil
		}

		if IsAudioFile(path, opts.Extensions) {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

// findAudioFilesWithFd uses the 'fd' command to list audio files
func findAudioFilesWithFd(directory string, opts ScanOptions) ([]string, error) {
	args := []string{"--type", "f", "--hidden", "--no-ignore", "--absolute-path"}
	for _, ext := range opts.Extensions {
		args = append(args, "--extension", strings.TrimPrefix(ext, "."))
	}
	args = append(args, ".", directory)

	cmd := exec.Command("fd", args...)
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	root, err := filepath.Abs(directory)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	var files []string
	for _, line := range lines {
		if line == "" || !IsAudioFile(line, opts.Extensions) {
			continue
		}
		if inSkippedDir(root, line, opts.SkipDirs) {
			continue
		}
		// keep paths relative to the caller's spelling of the directory
		if rel, err := filepath.Rel(root, line); err == nil {
			line = filepath.Join(directory, rel)
		}
		files = append(files, line)
	}

	return files, nil
}

// orderByExtension groups files by extension order, sorting each group by path
func orderByExtension(files []string, extensions []string) []string {
	rank := make(map[string]int, len(extensions))
	for i, ext := range extensions {
		rank[strings.ToLower(ext)] = i
	}

	ordered := make([]string, len(files))
	copy(ordered, files)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri := rank[strings.ToLower(filepath.Ext(ordered[i]))]
		rj := rank[strings.ToLower(filepath.Ext(ordered[j]))]
		if ri != rj {
			return ri < rj
		}
		return ordered[i] < ordered[j]
	})
	return ordered
}

func inSkippedDir(root, path string, skipDirs []string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	parts := strings.Split(rel, string(filepath.Separator))
	return len(parts) > 1 && isSkipped(parts[0], skipDirs)
}

func isSkipped(name string, skipDirs []string) bool {
	for _, s := range skipDirs {
		if s == name {
			return true
		}
	}
	return false
}
