package hud

import (
	"fmt"
	"strings"
)

const HelpLine = "B add  Enter keep  Esc cancel  hold R/S/E rotate/scale/extrude  arrows . / pan"

var (
	statusColor = [4]float32{1, 1, 1, 1}
	helpColor   = [4]float32{0.7, 0.7, 0.7, 1}
)

// StatusLine summarizes the editor state. fps is omitted while unknown.
func StatusLine(mode, op fmt.Stringer, boxes int, fps float64) string {
	parts := []string{mode.String(), op.String(), fmt.Sprintf("boxes %d", boxes)}
	if fps > 0 {
		parts = append(parts, fmt.Sprintf("%.0f fps", fps))
	}
	return strings.Join(parts, " | ")
}

// Overlay places the status line at the top-left corner and the key help at
// the bottom of a screenW x screenH surface.
func Overlay(a *Atlas, status string, screenW, screenH int) []TextItem {
	const margin = 8
	items := []TextItem{
		{Text: status, Position: [2]float32{margin, margin}, Scale: 1, Color: statusColor},
	}
	if a != nil {
		y := float32(screenH) - margin - a.LineHeight(1)
		items = append(items, TextItem{Text: HelpLine, Position: [2]float32{margin, y}, Scale: 1, Color: helpColor})
	}
	return items
}
