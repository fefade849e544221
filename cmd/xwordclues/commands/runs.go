package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"xwordclues/internal/batch"
	"xwordclues/internal/components/chrono"
	"xwordclues/internal/db"
	"xwordclues/internal/sink"
	"xwordclues/internal/worklist"

	"github.com/spf13/cobra"
)

var (
	cluesWorklist string
	cluesOut      string

	flashcardsWorklist string
	flashcardsOut      string
	flashcardsFresh    bool
)

func init() {
	cluesCmd.Flags().StringVar(&cluesWorklist, "words", "wordlist.csv", "The word worklist (Word,Clues,Occurrences,Rank).")
	cluesCmd.Flags().StringVarP(&cluesOut, "out", "o", "clues.csv", "Where to write the clues.")
	rootCmd.AddCommand(cluesCmd)

	flashcardsCmd.Flags().StringVar(&flashcardsWorklist, "clues", "cluelist.csv", "The clue worklist (Clue,Count,Rank).")
	flashcardsCmd.Flags().StringVarP(&flashcardsOut, "out", "o", "flashcards.csv", "Where to write the flashcards.")
	flashcardsCmd.Flags().BoolVar(&flashcardsFresh, "fresh", false, "Start over instead of continuing a previous run writing to the same output.")
	rootCmd.AddCommand(flashcardsCmd)
}

func printReport(report batch.Report, output string) {
	var states []string
	for _, state := range []batch.ItemState{
		batch.RECORDED,
		batch.SKIPPED,
		batch.NOT_FOUND,
		batch.ERROR,
		batch.SESSION_EXPIRED,
	} {
		states = append(states, fmt.Sprintf("%s=%d", state, report.States[state]))
	}
	slog.Info(
		"batch finished",
		"mode", report.Mode,
		"items", report.Total,
		"resumed", report.Resumed,
		"records", report.Records,
		"interrupted", report.Interrupted,
		"states", strings.Join(states, " "),
	)

	summary, err := sink.Summarize(output)
	if err != nil {
		slog.Warn("failed to summarize output", "path", output, "err", err)
		return
	}
	summary.Render(os.Stdout, 20)
}

var cluesCmd = &cobra.Command{
	Use:   "clues [--words <wordlist.csv>] [--out <clues.csv>]",
	Short: "Collects the most recent clues of every word in a word worklist.",
	RunE: func(cmd *cobra.Command, args []string) error {
		words, err := worklist.LoadWords(cluesWorklist, tel)
		if err != nil {
			return err
		}
		slog.Info("loaded worklist", "path", cluesWorklist, "words", len(words))

		manager, err := cfg.newManager(tel)
		if err != nil {
			return err
		}
		driver := batch.NewDriver[worklist.WordItem](
			manager,
			batch.NewWordMode(cfg.datedClueLocator(), cfg.Similarity, tel),
			chrono.NewStandardImpl(),
			nil,
			tel,
			batch.Options{PaceScale: cfg.PaceScale},
		)

		out, err := driver.Open(cluesOut)
		if err != nil {
			return err
		}
		report, err := driver.Run(cmd.Context(), words, out, cluesOut)
		if err != nil && !report.Interrupted {
			// leave the previous output alone
			return err
		}
		err = out.Close()
		if err != nil {
			return fmt.Errorf("write %s: %w", cluesOut, err)
		}
		printReport(report, cluesOut)
		return nil
	},
}

func statePath(output string) string {
	if cfg.StateDb != "" {
		return cfg.StateDb
	}
	return output + ".state.db"
}

var flashcardsCmd = &cobra.Command{
	Use:   "flashcards [--clues <cluelist.csv>] [--out <flashcards.csv>] [--fresh]",
	Short: "Searches every clue of a clue worklist and writes its most common answers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		clues, err := worklist.LoadClues(flashcardsWorklist, tel)
		if err != nil {
			return err
		}
		slog.Info("loaded worklist", "path", flashcardsWorklist, "clues", len(clues))

		manager, err := cfg.newManager(tel)
		if err != nil {
			return err
		}

		database, err := db.OpenDB(statePath(flashcardsOut))
		if err != nil {
			return err
		}
		defer database.Close()

		// runs are keyed by output so one state db can serve several
		run, err := filepath.Abs(flashcardsOut)
		if err != nil {
			return err
		}
		clock := chrono.NewStandardImpl()
		driver := batch.NewDriver[worklist.ClueItem](
			manager,
			batch.FlashcardMode{Answers: cfg.Answers},
			clock,
			batch.NewRunState(database, run, clock, tel),
			tel,
			batch.Options{
				PaceScale: cfg.PaceScale,
				Resume:    !flashcardsFresh,
			},
		)

		out, err := driver.Open(flashcardsOut)
		if err != nil {
			return err
		}
		report, runErr := driver.Run(cmd.Context(), clues, out, flashcardsOut)
		err = out.Close()
		if err != nil {
			return fmt.Errorf("write %s: %w", flashcardsOut, err)
		}
		if runErr != nil && !report.Interrupted {
			return runErr
		}
		if report.Interrupted {
			slog.Warn("run interrupted, run the same command again to continue", "output", flashcardsOut)
		}
		printReport(report, flashcardsOut)
		return nil
	},
}
