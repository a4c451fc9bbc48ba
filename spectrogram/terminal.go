package spectrogram

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nfnt/resize"
)

// gutterWidth is the space reserved left of the plot for frequency labels.
const gutterWidth = 7

var axisStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

// Terminal renders the spectrogram as half-block characters, two pixel rows per
// text row, with frequency labels on the left and the time axis underneath.
// width and height are the total cells available including the axes.
func (s *Spectrogram) Terminal(width, height int) string {
	plotW := width - gutterWidth
	plotH := height - 1 // time axis row
	if plotW < 2 || plotH < 1 || s.Frames() == 0 {
		return ""
	}

	cells := HalfBlocks(s.Image(), plotW, plotH)
	labels := s.gutterLabels(plotH)

	var b strings.Builder
	for row, line := range cells {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s ", gutterWidth-1, labels[row])))
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(s.timeAxis(plotW))
	return b.String()
}

// HalfBlocks downscales img to width x 2*height pixels and returns one string per text row.
func HalfBlocks(img image.Image, width, height int) []string {
	scaled := resize.Resize(uint(width), uint(height*2), img, resize.Bilinear)
	bounds := scaled.Bounds()

	rows := make([]string, height)
	for r := 0; r < height; r++ {
		var line strings.Builder
		for x := 0; x < width; x++ {
			top := scaled.At(bounds.Min.X+x, bounds.Min.Y+2*r)
			bottom := scaled.At(bounds.Min.X+x, bounds.Min.Y+2*r+1)
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(top))).
				Background(lipgloss.Color(hexColor(bottom)))
			line.WriteString(cell.Render("▀"))
		}
		rows[r] = line.String()
	}
	return rows
}

// gutterLabels places the y ticks (as kHz) on the text rows showing their bins.
func (s *Spectrogram) gutterLabels(rows int) []string {
	labels := make([]string, rows)
	bins := s.Bins()
	for _, tick := range s.YTicks(100) {
		pixelY := (bins - 1 - tick.Pos) * rows * 2 / bins
		row := pixelY / 2
		if row < 0 || row >= rows || labels[row] != "" {
			continue
		}
		labels[row] = fmt.Sprintf("%.1fk", s.BinFrequency(tick.Pos)/1000)
	}
	return labels
}

// timeAxis prints the first and last x tick under the plot, in seconds.
func (s *Spectrogram) timeAxis(width int) string {
	ticks := s.XTicks()
	start := ticks[0].Label
	end := ticks[len(ticks)-1].Label + "s"

	gap := width - len(start) - len(end)
	if gap < 1 {
		gap = 1
	}
	return axisStyle.Render(strings.Repeat(" ", gutterWidth) + start + strings.Repeat(" ", gap) + end)
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8)
}
