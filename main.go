package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/lepinkainen/clipsorter/cmd"
	"github.com/lepinkainen/clipsorter/config"
	"github.com/lepinkainen/clipsorter/logging"
	"github.com/lepinkainen/clipsorter/types"
)

var Version = "dev"

type CLI struct {
	Config        string  `help:"Config file (default: ~/.config/clipsorter/config.yaml)" type:"path"`
	Debug         bool    `help:"Write debug logs"`
	LogFile       string  `name:"log-file" help:"Log file path" type:"path"`
	NativeDialogs bool    `name:"native-dialogs" help:"Show dialogs and pickers through the desktop instead of in the terminal"`
	MaxDuration   float64 `name:"max-duration" help:"Longest clip in seconds that gets a spectrogram (overrides config)"`

	Version kong.VersionFlag `help:"Show version and exit"`

	UI      cmd.UICmd      `cmd:"" default:"withargs" help:"Open the review TUI"`
	View    cmd.ViewCmd    `cmd:"" help:"Show the spectrogram of one clip"`
	Sort    cmd.SortCmd    `cmd:"" help:"Sort the clips of a folder into label folders"`
	Render  cmd.RenderCmd  `cmd:"" help:"Write spectrogram PNGs"`
	Similar cmd.SimilarCmd `cmd:"" help:"Find clips with similar spectrograms and label them together"`
	History cmd.HistoryCmd `cmd:"" help:"List journaled moves of a folder"`
	Undo    cmd.UndoCmd    `cmd:"" help:"Move the last sorted clips back"`
	Verify  cmd.VerifyCmd  `cmd:"" help:"Check sorted clips against their recorded checksums"`
}

// loadConfig reads the config file and applies command-line overrides.
func (cli *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}

	if cli.NativeDialogs {
		cfg.NativeDialogs = true
	}
	if cli.MaxDuration > 0 {
		cfg.MaxDuration = cli.MaxDuration
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("clipsorter"),
		kong.Description("Review bioacoustic clips by their spectrograms and sort them into label folders."),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	cfg, err := cli.loadConfig()
	ctx.FatalIfErrorf(err)

	closer, err := logging.Setup(cli.LogFile, cli.Debug)
	ctx.FatalIfErrorf(err)
	defer func() { _ = closer.Close() }()

	logging.Logger.WithField("version", Version).WithField("command", ctx.Command()).Info("starting")

	err = ctx.Run(&types.AppContext{Version: Version, Config: cfg})
	if err != nil {
		logging.Logger.WithError(err).Error("command failed")
	}
	ctx.FatalIfErrorf(err)
}
