package cmd

import (
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/clipsorter/audio"
	"github.com/lepinkainen/clipsorter/config"
	"github.com/lepinkainen/clipsorter/logging"
	"github.com/lepinkainen/clipsorter/spectrogram"
	"github.com/lepinkainen/clipsorter/types"
	"github.com/lepinkainen/clipsorter/ui"
	"github.com/lepinkainen/clipsorter/utils"
)

// SimilarCmd groups clips whose spectrograms look alike so they can be labeled together.
type SimilarCmd struct {
	Folder    string `arg:"" name:"folder" help:"Folder of clips to compare" type:"existingdir" default:"."`
	Threshold int    `help:"Hamming distance threshold for similarity (0-64)" default:"10"`
	Workers   int    `help:"Number of parallel workers" default:"0"`
	NoTUI     bool   `name:"no-tui" help:"Disable interactive TUI and just list similar groups"`
}

func (cmd *SimilarCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.GetConfig()
	if cmd.Threshold < 0 || cmd.Threshold > 64 {
		return fmt.Errorf("threshold %d out of range 0-64", cmd.Threshold)
	}

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("Clip Sorter %s", appCtx.GetVersion())))
	fmt.Printf("Scanning %s for similar clips...\n", cmd.Folder)

	files, err := audio.FindAudioFiles(cmd.Folder, cfg.ScanOptions())
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", cmd.Folder, err)
	}
	if len(files) < 2 {
		fmt.Printf("%s\n", ui.ErrorStyle.Render("❌ Need at least 2 clips to compare"))
		return nil
	}

	workers := utils.DefaultWorkers(cmd.Workers, files)
	clips := hashClips(files, cfg, workers)

	groups := spectrogram.GroupSimilar(clips, cmd.Threshold)
	if len(groups) == 0 {
		fmt.Printf("%s\n", ui.SuccessStyle.Render("✅ No similar clips found within threshold"))
		return nil
	}

	if cmd.NoTUI {
		printGroups(groups, cmd.Threshold)
		return nil
	}

	opts := ui.SimilarOptions{Root: cmd.Folder, Config: cfg, Player: openPlayer(cfg)}
	if j := openJournal(cfg); j != nil {
		defer func() { _ = j.Close() }()
		opts.Journal = j
	}

	model := ui.NewSimilarModel(groups, opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// hashClips renders and hashes every clip. Clips that are too long or fail to
// decode are left out.
func hashClips(files []string, cfg *config.Config, workers int) []spectrogram.HashedClip {
	opts := cfg.FileOptions()
	bar := progressbar.Default(int64(len(files)), "hashing")

	var (
		mu    sync.Mutex
		clips []spectrogram.HashedClip
	)

	var g errgroup.Group
	g.SetLimit(workers)
	for _, file := range files {
		g.Go(func() error {
			defer func() { _ = bar.Add(1) }()

			spec, _, err := spectrogram.FromFile(file, opts)
			if err != nil {
				if !errors.Is(err, audio.ErrTooLong) {
					logging.Logger.WithError(err).WithField("path", file).Warn("clip not hashed")
				}
				return nil
			}
			hash, err := spectrogram.PerceptualHash(spec.Image())
			if err != nil {
				logging.Logger.WithError(err).WithField("path", file).Warn("clip not hashed")
				return nil
			}

			mu.Lock()
			clips = append(clips, spectrogram.HashedClip{Path: file, Hash: hash})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	_ = bar.Finish()

	return clips
}

func printGroups(groups [][]string, threshold int) {
	fmt.Printf("\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("Found %d group(s) of similar clips (threshold: %d):", len(groups), threshold)))
	for i, files := range groups {
		fmt.Printf("\n🔸 Group %d (%d clips):\n", i+1, len(files))
		for _, file := range files {
			fmt.Printf("  %s\n", file)
		}
	}
}
