package commands

import (
	"fmt"
	"log/slog"
	"os"
	"xwordclues/internal/records"
	"xwordclues/internal/scrapers/xwordinfo"
	"xwordclues/internal/worklist"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	wordlistOut string
	wordlistTop int

	cluelistOut string
	cluelistTop int

	answersLimit int
)

func init() {
	wordlistCmd.Flags().StringVarP(&wordlistOut, "out", "o", "wordlist.csv", "Where to write the word worklist.")
	wordlistCmd.Flags().IntVar(&wordlistTop, "top", 100, "How many of the most popular words to keep.")
	rootCmd.AddCommand(wordlistCmd)

	cluelistCmd.Flags().StringVarP(&cluelistOut, "out", "o", "cluelist.csv", "Where to write the clue worklist.")
	cluelistCmd.Flags().IntVar(&cluelistTop, "top", 500, "How many of the most common clues to keep.")
	rootCmd.AddCommand(cluelistCmd)

	answersCmd.Flags().IntVarP(&answersLimit, "limit", "n", 0, "How many answers to show, defaults to the configured flashcard answers.")
	rootCmd.AddCommand(answersCmd)
}

var wordlistCmd = &cobra.Command{
	Use:   "wordlist [--out <wordlist.csv>] [--top <n>]",
	Short: "Generates a word worklist from the popular answers page.",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := cfg.newManager(tel)
		if err != nil {
			return err
		}
		sess, err := manager.Acquire(cmd.Context())
		if err != nil {
			return err
		}

		words, _, err := xwordinfo.WithSession(cmd.Context(), manager, sess, func(s *xwordinfo.Session) ([]records.PopularWord, error) {
			return s.PopularWords(cmd.Context(), wordlistTop)
		})
		if err != nil {
			return err
		}
		if len(words) == 0 {
			return fmt.Errorf("no words found on the popular answers page")
		}

		err = worklist.WriteWords(wordlistOut, words)
		if err != nil {
			return err
		}
		slog.Info("wrote word worklist", "path", wordlistOut, "words", len(words))
		return nil
	},
}

var cluelistCmd = &cobra.Command{
	Use:   "cluelist [--out <cluelist.csv>] [--top <n>]",
	Short: "Generates a clue worklist from the common clues page.",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := cfg.newManager(tel)
		if err != nil {
			return err
		}
		sess, err := manager.Acquire(cmd.Context())
		if err != nil {
			return err
		}

		locator := cfg.aggregateClueLocator()
		clues, _, err := xwordinfo.WithSession(cmd.Context(), manager, sess, func(s *xwordinfo.Session) ([]records.CommonClue, error) {
			return s.FrequentClues(cmd.Context(), locator, cluelistTop)
		})
		if err != nil {
			return err
		}
		if len(clues) == 0 {
			return fmt.Errorf("no clue table found on the common clues page")
		}

		err = worklist.WriteClues(cluelistOut, clues)
		if err != nil {
			return err
		}
		slog.Info("wrote clue worklist", "path", cluelistOut, "clues", len(clues))
		return nil
	},
}

var answersCmd = &cobra.Command{
	Use:   "answers <clue>",
	Short: "Prints the most common answers of a single clue.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit := answersLimit
		if limit <= 0 {
			limit = cfg.Answers
		}

		manager, err := cfg.newManager(tel)
		if err != nil {
			return err
		}
		sess, err := manager.Acquire(cmd.Context())
		if err != nil {
			return err
		}
		answers, _, err := xwordinfo.TopAnswers(cmd.Context(), manager, sess, args[0], limit)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Answer", "Count", "Flashcard"})
		for _, a := range answers {
			t.AppendRow(table.Row{a.Answer, a.Count, ""})
		}
		if len(answers) > 0 {
			card := records.Flashcard(args[0], 0, 0, answers)
			t.AppendFooter(table.Row{card.Answers, "", card.Clue})
		}
		t.Render()
		return nil
	},
}
