package cmd

import (
	"context"
	"fmt"

	"github.com/lepinkainen/clipsorter/audio"
	"github.com/lepinkainen/clipsorter/journal"
	"github.com/lepinkainen/clipsorter/types"
	"github.com/lepinkainen/clipsorter/ui"
)

// VerifyCmd checks that sorted clips are still in their label folders with the
// CRC32 checksum recorded when they were moved.
type VerifyCmd struct {
	Folder string `arg:"" name:"folder" help:"Reviewed folder" type:"existingdir" default:"."`
}

// verifyResult counts journaled moves by outcome.
type verifyResult struct {
	verified int
	failed   int
	skipped  int
}

func (cmd *VerifyCmd) Run(appCtx *types.AppContext) error {
	j, err := journal.Open(appCtx.GetConfig().JournalPath)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	entries, err := j.List(context.Background(), cmd.Folder, 0)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", ui.InfoStyle.Render(fmt.Sprintf("Verifying %d moves...", len(entries))))

	res := verifyEntries(entries)

	fmt.Printf("\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("✅ Verified: %d, ❌ Failed: %d", res.verified, res.failed)))
	if res.failed > 0 {
		return fmt.Errorf("%d sorted clips failed verification", res.failed)
	}
	return nil
}

// verifyEntries checks every move that has not been undone. The newest move of a
// target wins, so a file moved twice is only checked once.
func verifyEntries(entries []journal.Entry) verifyResult {
	var res verifyResult
	seen := make(map[string]bool)

	for _, e := range entries {
		if e.Undone || seen[e.Target] {
			res.skipped++
			continue
		}
		seen[e.Target] = true

		if e.CRC32 == 0 {
			fmt.Printf("⚠️  %s has no recorded checksum\n", e.Target)
			res.skipped++
			continue
		}

		actual, err := audio.CalculateCRC32(e.Target)
		if err != nil {
			fmt.Printf("%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ Error calculating hash for %s: %v", e.Target, err)))
			res.failed++
			continue
		}

		if actual == e.CRC32 {
			fmt.Printf("%s\n", ui.SuccessStyle.Render(fmt.Sprintf("✅ %s", e.Target)))
			res.verified++
		} else {
			fmt.Printf("%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ %s (expected: %08X, got: %08X)", e.Target, e.CRC32, actual)))
			res.failed++
		}
	}

	return res
}
