package cli

import (
	"strings"

	"focus-tools/internal/model"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

// taskTitles adapts a task slice to fuzzy.Source.
type taskTitles []model.Task

func (t taskTitles) String(i int) string { return t[i].Title }
func (t taskTitles) Len() int            { return len(t) }

type findMatch struct {
	ID      string           `json:"id" yaml:"id"`
	Title   string           `json:"title" yaml:"title"`
	Status  model.TaskStatus `json:"status" yaml:"status"`
	Score   int              `json:"score" yaml:"score"`
	Matched []int            `json:"matched,omitempty" yaml:"matched,omitempty"`
}

// findTasks fuzzy-matches live task titles, best match first.
func findTasks(tasks []model.Task, query string, limit int) []findMatch {
	src := taskTitles(tasks)
	matches := fuzzy.FindFrom(strings.TrimSpace(query), src)
	out := make([]findMatch, 0, len(matches))
	for _, m := range matches {
		t := src[m.Index]
		out = append(out, findMatch{ID: t.ID, Title: t.Title, Status: t.Status, Score: m.Score, Matched: m.MatchedIndexes})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func newTasksFindCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy-search live task titles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := findTasks(db.LiveTasks(), strings.Join(args, " "), limit)
			var hints []string
			if len(out) > 0 {
				hints = []string{"focus tasks show " + out[0].ID}
			}
			return writeOut(cmd, app, envelope(out, hints...))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Max matches (0 = all)")
	return cmd
}
