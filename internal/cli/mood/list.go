package mood

import (
	"context"
	"fmt"

	"github.com/julianstephens/moodlog/internal/cli"
	"github.com/julianstephens/moodlog/internal/utils"
)

type ListCmd struct {
	From string `help:"First day (YYYY-MM-DD)."`
	To   string `help:"Last day (YYYY-MM-DD). Defaults to today."`
	Days int    `default:"7" help:"Number of days to show when --from is not given."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	to := c.To
	if to == "" {
		to = ctx.Today()
	}
	if !utils.ValidateDateFormat(to) {
		return fmt.Errorf("invalid --to date %q", to)
	}

	from := c.From
	if from == "" {
		if c.Days < 1 {
			return fmt.Errorf("--days must be at least 1")
		}
		var err error
		from, err = utils.AddDays(to, -(c.Days - 1))
		if err != nil {
			return err
		}
	} else if !utils.ValidateDateFormat(from) {
		return fmt.Errorf("invalid --from date %q", from)
	}

	recs, err := ctx.Records.List(context.Background(), from, to)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Moods %s to %s", from, to)))
	if len(recs) == 0 {
		fmt.Println(cli.MutedStyle.Render("No records in this range."))
		return nil
	}

	sum, n := 0, 0
	for _, r := range recs {
		fmt.Println(cli.FormatRecordLine(r))
		for _, v := range []*int{r.MorningMood, r.EveningMood} {
			if v != nil {
				sum += *v
				n++
			}
		}
	}
	if n > 0 {
		fmt.Printf("\n%s %.1f over %d entries\n", cli.MutedStyle.Render("Average"), float64(sum)/float64(n), n)
	}
	return nil
}
