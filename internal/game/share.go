package game

import (
	"fmt"
	"strings"

	"github.com/robalobadob/colordle/apps/go-server/internal/color"
)

// DefaultShareURL is appended to share text when none is configured.
const DefaultShareURL = "colordle.web.app"

var filled = map[color.Channel]string{
	color.Red:   "🟥",
	color.Green: "🟩",
	color.Blue:  "🟦",
}

const blank = "⬜"

// shareLabel is "Daily DD/MM/YYYY" for daily sessions, "Practice Game" otherwise.
func shareLabel(s Session) string {
	if s.Date == "" {
		return "Practice Game"
	}
	return "Daily " + s.Date
}

// ShareText renders the spoiler-free summary of a session: one emoji
// triple per guess, the guess count and a context label.
func ShareText(s Session, url string) string {
	if url == "" {
		url = DefaultShareURL
	}
	rows := make([]string, 0, len(s.Guesses))
	for _, g := range s.Guesses {
		var b strings.Builder
		for _, ch := range color.Channels {
			if g.Evaluation.Get(ch) == MarkCorrect {
				b.WriteString(filled[ch])
			} else {
				b.WriteString(blank)
			}
		}
		rows = append(rows, b.String())
	}
	return fmt.Sprintf("Colordle %s\n%d Guesses\n\n%s\n\nPlay at: %s",
		shareLabel(s), len(s.Guesses), strings.Join(rows, "\n"), url)
}
