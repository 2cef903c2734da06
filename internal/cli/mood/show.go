package mood

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/moodlog/internal/cli"
	"github.com/julianstephens/moodlog/internal/utils"
)

type ShowCmd struct {
	Date string `arg:"" optional:"" help:"Day to show (YYYY-MM-DD). Defaults to today."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	date := c.Date
	if date == "" {
		date = ctx.Today()
	}
	if !utils.ValidateDateFormat(date) {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}

	rec, err := ctx.Records.GetRecord(context.Background(), date)
	if err != nil {
		return fmt.Errorf("failed to load record: %w", err)
	}

	var b strings.Builder
	b.WriteString(cli.TitleStyle.Render("Mood for "+date) + "\n\n")
	if rec == nil {
		b.WriteString(cli.MutedStyle.Render("Nothing recorded yet."))
	} else {
		fmt.Fprintf(&b, "Morning  %s", cli.FormatMood(rec.MorningMood))
		if rec.MorningAt != nil {
			b.WriteString("  " + cli.MutedStyle.Render(rec.MorningAt.In(ctx.Location).Format("15:04")))
		}
		fmt.Fprintf(&b, "\nEvening  %s", cli.FormatMood(rec.EveningMood))
		if rec.EveningAt != nil {
			b.WriteString("  " + cli.MutedStyle.Render(rec.EveningAt.In(ctx.Location).Format("15:04")))
		}
		if rec.AutoSaved {
			b.WriteString("\n\n" + cli.WarningStyle.Render("Evening was filled in automatically at day rollover."))
		}
	}

	fmt.Println(cli.BoxStyle.Render(b.String()))
	return nil
}
