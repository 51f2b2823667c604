package tournament

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/louisbranch/liarsdice/internal/platform/i18n"
	"github.com/louisbranch/liarsdice/internal/storage"
	"golang.org/x/text/message"
)

var reportColumns = []string{
	"report.col.rank",
	"report.col.agent",
	"report.col.matches",
	"report.col.wins",
	"report.col.win_pct",
	"report.col.avg_score",
	"report.col.avg_rank",
	"report.col.liar_acc",
	"report.col.illegal",
	"report.col.dice_lost",
	"report.col.faults",
}

// Render writes the ranked report table in locale.
func Render(w io.Writer, r Report, runID, locale string) error {
	p := i18n.Printer(locale)
	if _, err := p.Fprintf(w, "report.title", runID, r.Rounds, r.Matches, r.Seed); err != nil {
		return fmt.Errorf("write report title: %w", err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("write report title: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, col := range reportColumns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, p.Sprintf(col))
	}
	fmt.Fprintln(tw)
	for i, s := range r.Standings {
		fmt.Fprintln(tw, reportRow(p, i+1, s))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write report table: %w", err)
	}

	if r.TurnGuards > 0 {
		p.Fprintf(w, "report.turn_guards", r.TurnGuards)
		fmt.Fprintln(w)
	}
	if total := r.FaultTotal(); total > 0 {
		p.Fprintf(w, "report.faults.summary", total)
		fmt.Fprintln(w)
	}
	return nil
}

func reportRow(p *message.Printer, position int, s AgentStats) string {
	return p.Sprintf("%d\t%s\t%d\t%d\t%.1f%%\t%.2f\t%.2f\t%.1f%%\t%d\t%d\t%d",
		position,
		s.Name,
		s.MatchesPlayed,
		s.Wins,
		s.WinPct(),
		s.AvgPlacementScore(),
		s.AvgFinishRank(),
		s.LiarCallAccuracy(),
		s.IllegalActions,
		s.DiceLost,
		s.Faults.Total(),
	)
}

// ToRun converts a report into its persisted form.
func ToRun(r Report, id string) storage.Run {
	run := storage.Run{
		ID:         id,
		Seed:       r.Seed,
		Rounds:     r.Rounds,
		Matches:    r.Matches,
		MaxPlayers: r.MaxPlayers,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Standings:  make([]storage.Standing, len(r.Standings)),
	}
	for i, s := range r.Standings {
		run.Standings[i] = storage.Standing{
			Position:          i + 1,
			Agent:             s.Name,
			MatchesPlayed:     s.MatchesPlayed,
			Wins:              s.Wins,
			WinPct:            s.WinPct(),
			AvgPlacementScore: s.AvgPlacementScore(),
			AvgFinishRank:     s.AvgFinishRank(),
			LiarCallAccuracy:  s.LiarCallAccuracy(),
			IllegalActions:    s.IllegalActions,
			DiceLost:          s.DiceLost,
			Faults:            s.Faults.Total(),
		}
	}
	return run
}
