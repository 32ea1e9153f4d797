package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/contentrec/internal/domain/options"
	recuc "github.com/kailas-cloud/contentrec/internal/usecase/recommender"
)

func newSimilarCommand(ctx *commandContext) *cobra.Command {
	var (
		modelPath   string
		id          string
		start, size int
		asJSON      bool
		asTable     bool
	)

	cmd := &cobra.Command{
		Use:   "similar",
		Short: "Print the ranked similar documents of an id",
		Long: "Print the ranked similar documents of an id from a trained model file.\n" +
			"Output is a table on a terminal and JSON otherwise; --json or --table force one.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && asTable {
				return errors.New("--json and --table are mutually exclusive")
			}
			m, err := readModelFile(modelPath)
			if err != nil {
				return err
			}
			rec, err := recuc.New(options.Default(), recuc.WithLogger(ctx.log()))
			if err != nil {
				return err
			}
			if err := rec.Import(m); err != nil {
				return fmt.Errorf("import %s: %w", modelPath, err)
			}

			items := rec.SimilarDocuments(id, start, size)
			if asJSON || (!asTable && !isTerminal(cmd)) {
				return writeJSON(cmd, items)
			}
			if len(items) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No similar documents for %q\n", id)
				return nil
			}

			rows := make([][]string, len(items))
			for i, it := range items {
				rows[i] = []string{strconv.Itoa(start + i + 1), it.ID, strconv.FormatFloat(it.Score, 'f', 4, 64)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Rank", "ID", "Score"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignRight},
			))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&modelPath, "model", "m", "model.json", "Model file written by train")
	flags.StringVar(&id, "id", "", "Document id to query")
	flags.IntVar(&start, "start", 0, "Offset into the ranked list")
	flags.IntVar(&size, "size", 10, "Number of entries (negative for all)")
	flags.BoolVar(&asJSON, "json", false, "Force JSON output")
	flags.BoolVar(&asTable, "table", false, "Force table output")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func isTerminal(cmd *cobra.Command) bool {
	file, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
