package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/contentrec/internal/corpus"
	"github.com/kailas-cloud/contentrec/internal/domain/options"
	recuc "github.com/kailas-cloud/contentrec/internal/usecase/recommender"
)

type trainSummary struct {
	Mode       string   `json:"mode"`
	Inputs     []string `json:"inputs"`
	Targets    []string `json:"targets,omitempty"`
	Documents  int      `json:"documents"`
	Pairs      int      `json:"pairs"`
	Entries    int      `json:"entries"`
	DurationMs int64    `json:"duration_ms"`
	Output     string   `json:"output"`
}

func newTrainCommand(ctx *commandContext) *cobra.Command {
	var (
		inputs, targets []string
		out             string
		asJSON          bool
		lang            string
		minScore        float64
		maxVectorSize   int
		maxSimilar      int
		debug           bool
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model from corpus files and write it out",
		Long: "Train a model from JSON, JSON Lines, YAML or Parquet corpora.\n" +
			"Inputs accept glob patterns (** spans directories). With --target the\n" +
			"model is trained bidirectionally between the two collections.\n" +
			"The model is written as YAML when --out ends in .yaml or .yml, JSON otherwise.",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var patch options.Patch
			if flags.Changed("language") {
				patch.Language = &lang
			}
			if flags.Changed("min-score") {
				patch.MinScore = &minScore
			}
			if flags.Changed("max-vector-size") {
				patch.MaxVectorSize = &maxVectorSize
			}
			if flags.Changed("max-similar") {
				patch.MaxSimilarDocuments = &maxSimilar
			}
			if flags.Changed("debug") {
				patch.Debug = &debug
			}
			opts, err := patch.FromDefaults()
			if err != nil {
				return err
			}

			logger := ctx.log()
			rec, err := recuc.New(opts, recuc.WithLogger(logger))
			if err != nil {
				return err
			}

			docs, inputPaths, err := corpus.LoadAll(inputs...)
			if err != nil {
				return err
			}
			logger.Info("Corpus loaded", zap.Strings("files", inputPaths), zap.Int("documents", len(docs)))

			summary := trainSummary{Inputs: inputPaths, Output: out}
			var stats recuc.Stats
			if len(targets) > 0 {
				targetDocs, targetPaths, err := corpus.LoadAll(targets...)
				if err != nil {
					return err
				}
				summary.Targets = targetPaths
				stats, err = rec.TrainBidirectional(cmd.Context(), docs, targetDocs)
				if err != nil {
					return err
				}
			} else {
				stats, err = rec.Train(cmd.Context(), docs)
				if err != nil {
					return err
				}
			}

			if err := writeModelFile(out, rec.Export()); err != nil {
				return err
			}

			summary.Mode = stats.Mode
			summary.Documents = stats.Documents
			summary.Pairs = stats.Pairs
			summary.Entries = stats.Entries
			summary.DurationMs = stats.Duration.Milliseconds()
			if asJSON {
				return writeJSON(cmd, summary)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Trained %s model on %d documents: %d entries in %s -> %s\n",
				summary.Mode, summary.Documents, summary.Entries,
				stats.Duration.Round(time.Millisecond), summary.Output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&inputs, "input", "i", nil, "Corpus files or glob patterns (repeatable)")
	flags.StringSliceVarP(&targets, "target", "t", nil, "Target corpus files for bidirectional training")
	flags.StringVarP(&out, "out", "o", "model.json", "Model output file")
	flags.BoolVar(&asJSON, "json", false, "Print the run summary as JSON")
	flags.StringVar(&lang, "language", string(options.Default().Language), "Pipeline language (en, ja)")
	flags.Float64Var(&minScore, "min-score", options.DefaultMinScore, "Keep pairs scoring strictly above this value")
	flags.IntVar(&maxVectorSize, "max-vector-size", options.DefaultMaxVectorSize, "Terms kept per document vector")
	flags.IntVar(&maxSimilar, "max-similar", 0, "Entries kept per ranked list (default unbounded)")
	flags.BoolVar(&debug, "debug", false, "Log per-stage timings")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
