package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/moodlog/internal/constants"
	"github.com/julianstephens/moodlog/internal/models"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	DangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	OKStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// moodColors runs red to green across the scale.
var moodColors = []string{"196", "202", "208", "214", "220", "190", "154", "118", "82", "46"}

// FormatMood renders a mood value as "7/10 ███████···" or a dash when unset.
func FormatMood(v *int) string {
	if v == nil {
		return MutedStyle.Render("—")
	}
	n := *v
	if n < constants.MinMood || n > constants.MaxMood {
		return DangerStyle.Render(fmt.Sprintf("%d?", n))
	}
	bar := strings.Repeat("█", n) + MutedStyle.Render(strings.Repeat("·", constants.MaxMood-n))
	color := lipgloss.Color(moodColors[n-constants.MinMood])
	return fmt.Sprintf("%2d/%d %s", n, constants.MaxMood, lipgloss.NewStyle().Foreground(color).Render(bar))
}

// FormatRecordLine is the one-line summary used by list views.
func FormatRecordLine(r models.MoodRecord) string {
	line := fmt.Sprintf("%s  morning %s  evening %s", r.Date, FormatMood(r.MorningMood), FormatMood(r.EveningMood))
	if r.AutoSaved {
		line += " " + WarningStyle.Render("(auto-saved)")
	}
	return line
}
