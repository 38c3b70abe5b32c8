package dump

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/halvorsen/nrbf/wire/record"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	nullStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// WriteStyled renders s like Write but with ANSI styling applied to
// record headers and null markers, for a terminal CLI consumer.
func WriteStyled(w io.Writer, s *record.Stream) error {
	plain := Text(s)
	styled := styleLines(plain)
	_, err := io.WriteString(w, styled)
	return err
}

func styleLines(plain string) string {
	lines := strings.Split(plain, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "--- Record:"):
			lines[i] = headerStyle.Render(line)
		case strings.HasSuffix(line, ") null"):
			lines[i] = nullStyle.Render(line)
		case strings.Contains(line, "Tag:"):
			lines[i] = tagStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
