package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
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

// RenderCmd writes spectrogram PNGs for clips without opening the TUI.
type RenderCmd struct {
	Paths   []string `arg:"" name:"paths" help:"Audio files or folders to render" type:"path"`
	Out     string   `help:"Output directory (default: next to each clip)" type:"path"`
	Workers int      `help:"Number of parallel workers" default:"0"`
	DryRun  bool     `help:"Show what would be rendered without writing anything"`
	Plain   bool     `help:"Show a plain progress bar instead of the worker view"`
}

// renderFile is a clip to render. Rel is its path below the folder it was
// found in, or its base name when it was named directly.
type renderFile struct {
	Path string
	Rel  string
}

type renderStats struct {
	mu       sync.Mutex
	rendered int
	skipped  int
	failed   []string
}

func (s *renderStats) add(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err == nil:
		s.rendered++
	case errors.Is(err, audio.ErrTooLong):
		s.skipped++
	default:
		s.failed = append(s.failed, fmt.Sprintf("%s: %v", path, err))
	}
}

func (cmd *RenderCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.GetConfig()

	files, err := expandAudioPaths(cmd.Paths, cfg.Extensions)
	if err != nil {
		return fmt.Errorf("failed to expand paths: %w", err)
	}
	if err := cmd.checkOutputs(files); err != nil {
		return err
	}

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("Clip Sorter %s", appCtx.GetVersion())))

	if len(files) == 0 {
		fmt.Println("🎯 No audio files to render.")
		return nil
	}

	if cmd.DryRun {
		fmt.Println(ui.ProcessingStyle.Render("🔍 DRY RUN MODE - No files will be written"))
		cmd.runDryRun(files, cfg)
		return nil
	}

	workers := utils.DefaultWorkers(cmd.Workers, cmd.Paths)
	if cmd.Workers <= 0 && workers == 1 && runtime.NumCPU() > 1 {
		fmt.Printf("⚠️  Network drive detected, using 1 worker for optimal performance\n")
	}

	// worker view for multiple files with multiple workers on a terminal
	if !cmd.Plain && len(files) > 1 && workers > 1 && isatty.IsTerminal(os.Stdout.Fd()) {
		return cmd.runWithTUI(files, cfg, workers, appCtx.GetVersion())
	}

	fmt.Println(ui.ProcessingStyle.Render(fmt.Sprintf("🎨 Rendering %d clips with %d workers:", len(files), workers)))

	stats := cmd.renderAll(files, cfg, workers)
	cmd.printSummary(stats)

	if len(stats.failed) > 0 {
		return fmt.Errorf("%d clips failed to render", len(stats.failed))
	}
	return nil
}

// renderAll renders files concurrently. A failing clip does not stop the others.
func (cmd *RenderCmd) renderAll(files []renderFile, cfg *config.Config, workers int) *renderStats {
	opts := cfg.FileOptions()
	stats := &renderStats{}
	bar := progressbar.Default(int64(len(files)), "rendering")

	var g errgroup.Group
	g.SetLimit(workers)
	for _, file := range files {
		g.Go(func() error {
			err := renderOne(file.Path, cmd.outputPath(file), opts)
			if err != nil {
				logging.Logger.WithError(err).WithField("path", file.Path).Debug("clip not rendered")
			}
			stats.add(file.Path, err)
			_ = bar.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	_ = bar.Finish()

	return stats
}

// runWithTUI renders files on workers goroutines and reports each step to the worker view.
// Quitting the view stops handing out clips; clips being rendered still finish.
func (cmd *RenderCmd) runWithTUI(files []renderFile, cfg *config.Config, workers int, version string) error {
	opts := cfg.FileOptions()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(ui.NewRenderProgressModel(version, len(files), workers), tea.WithAltScreen())

	jobs := make(chan renderFile)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for file := range jobs {
				p.Send(ui.WorkerStartedMsg{WorkerID: workerID, Path: file.Path})
				out := cmd.outputPath(file)
				err := renderOne(file.Path, out, opts)
				msg := ui.WorkerCompletedMsg{WorkerID: workerID, Path: file.Path, Output: out}
				switch {
				case errors.Is(err, audio.ErrTooLong):
					msg.Skipped = true
				case err != nil:
					logging.Logger.WithError(err).WithField("path", file.Path).Debug("clip not rendered")
					msg.Err = err
				}
				p.Send(msg)
			}
		}(i)
	}

	go func() {
		defer close(jobs)
		for _, file := range files {
			select {
			case jobs <- file:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		p.Send(ui.RenderDoneMsg{})
	}()

	final, err := p.Run()
	cancel()
	if err != nil {
		return err
	}

	m, ok := final.(ui.RenderProgressModel)
	if !ok {
		return nil
	}
	if m.Interrupted() {
		wg.Wait()
		fmt.Printf("⏹️  Stopped after %d of %d clips\n", m.Finished(), len(files))
		return nil
	}
	if m.Failed() > 0 {
		return fmt.Errorf("%d clips failed to render", m.Failed())
	}
	fmt.Printf("%s\n", ui.SuccessStyle.Render(fmt.Sprintf("✅ Processed %d clips", m.Finished())))
	return nil
}

func renderOne(path, out string, opts spectrogram.FileOptions) error {
	spec, _, err := spectrogram.FromFile(path, opts)
	if err != nil {
		return err
	}
	return spectrogram.SavePNG(spec.Image(), out)
}

// runDryRun lists each clip with its duration and destination
func (cmd *RenderCmd) runDryRun(files []renderFile, cfg *config.Config) {
	fmt.Printf("📊 Analyzing %d files:\n\n", len(files))

	would := 0
	for _, file := range files {
		fmt.Printf("🎵 %s\n", file.Path)

		duration, err := audio.ProbeDuration(file.Path)
		if err != nil {
			fmt.Printf("   ❌ Error: %v\n\n", err)
			continue
		}
		duration = audio.RoundDuration(duration)
		fmt.Printf("   ⏱️  Duration: %.1f s\n", duration)
		if size, err := audio.GetFileSize(file.Path); err == nil {
			fmt.Printf("   📦 Size: %.1f KB\n", float64(size)/1024)
		}

		if err := audio.CheckDuration(duration, cfg.MaxDuration); err != nil {
			fmt.Printf("   ⏭️  Longer than %.1f s, would skip\n\n", cfg.MaxDuration)
			continue
		}
		fmt.Printf("   🖼️  Would write %s\n\n", cmd.outputPath(file))
		would++
	}

	fmt.Printf("📈 Summary:\n")
	fmt.Printf("   Total files: %d\n", len(files))
	fmt.Printf("   Would render: %d files\n", would)
}

func (cmd *RenderCmd) printSummary(stats *renderStats) {
	fmt.Printf("\n%s\n", ui.SuccessStyle.Render(fmt.Sprintf("✅ Rendered: %d", stats.rendered)))
	if stats.skipped > 0 {
		fmt.Printf("⏭️  Skipped (too long): %d\n", stats.skipped)
	}
	if len(stats.failed) > 0 {
		fmt.Printf("%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ Failed: %d", len(stats.failed))))
		for _, f := range stats.failed {
			fmt.Printf("   %s\n", f)
		}
	}
}

// outputPath puts the PNG next to the clip, or under --out at the clip's path
// below the folder it was found in.
func (cmd *RenderCmd) outputPath(file renderFile) string {
	if cmd.Out == "" {
		return pngName(file.Path)
	}
	return filepath.Join(cmd.Out, pngName(file.Rel))
}

func pngName(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
}

// checkOutputs refuses to start when two clips would write the same PNG.
func (cmd *RenderCmd) checkOutputs(files []renderFile) error {
	seen := make(map[string]string, len(files))
	for _, file := range files {
		out := cmd.outputPath(file)
		if other, ok := seen[out]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", other, file.Path, out)
		}
		seen[out] = file.Path
	}
	return nil
}

// expandAudioPaths replaces folders with the audio files under them and drops
// anything that is not audio.
func expandAudioPaths(paths []string, extensions []string) ([]renderFile, error) {
	var files []renderFile
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", path, err)
		}

		if info.IsDir() {
			found, err := audio.FindAudioFiles(path, audio.ScanOptions{Extensions: extensions})
			if err != nil {
				return nil, fmt.Errorf("failed to scan %s: %w", path, err)
			}
			for _, f := range found {
				rel, err := filepath.Rel(path, f)
				if err != nil {
					rel = filepath.Base(f)
				}
				files = append(files, renderFile{Path: f, Rel: rel})
			}
			continue
		}

		if audio.IsAudioFile(path, extensions) {
			files = append(files, renderFile{Path: path, Rel: filepath.Base(path)})
		}
	}
	return files, nil
}
