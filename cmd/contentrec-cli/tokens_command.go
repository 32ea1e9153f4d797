package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/contentrec/internal/domain/language"
	"github.com/kailas-cloud/contentrec/internal/domain/options"
	"github.com/kailas-cloud/contentrec/internal/text/pipeline"
)

type tokensOutput struct {
	Language string   `json:"language"`
	Raw      []string `json:"raw,omitempty"`
	Terms    []string `json:"terms"`
}

func newTokensCommand(_ *commandContext) *cobra.Command {
	var (
		lang   string
		raw    bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "tokens [text...]",
		Short: "Show the terms the pipeline extracts from text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipeline.New(language.Language(lang), options.DefaultTokenFilter())
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")

			out := tokensOutput{Language: string(p.Language())}
			if raw {
				if out.Raw, err = p.Tokenize(cmd.Context(), text); err != nil {
					return err
				}
			}
			if out.Terms, err = p.Process(cmd.Context(), text); err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			if raw {
				fmt.Fprintf(w, "raw:   %s\n", strings.Join(out.Raw, " | "))
			}
			fmt.Fprintf(w, "terms: %s\n", strings.Join(out.Terms, " | "))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&lang, "language", "l", string(language.Default), "Pipeline language (en, ja)")
	flags.BoolVar(&raw, "raw", false, "Also print the unfiltered tokenizer output")
	flags.BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}
