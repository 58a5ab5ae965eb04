package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mohitkumar/screenflow/model"
	"github.com/mohitkumar/screenflow/render"
	"github.com/mohitkumar/screenflow/variable"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	docFile  string
	varsFile string
	taps     []string
	hidden   []string
	format   string
}

func newRenderCommand() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "render a screen document, optionally replaying taps",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.docFile, "doc", "", "element document json file")
	cmd.Flags().StringVar(&opts.varsFile, "vars", "", "variables json file")
	cmd.Flags().StringArrayVar(&opts.taps, "tap", nil, "element id to tap, repeatable")
	cmd.Flags().StringSliceVar(&opts.hidden, "hide", nil, "element ids to hide")
	cmd.Flags().StringVar(&opts.format, "format", "json", "output format: json or html")
	_ = cmd.MarkFlagRequired("doc")
	return cmd
}

func runRender(out io.Writer, opts *renderOptions) error {
	var doc model.Document
	if err := readJSON(opts.docFile, &doc); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	vars := variable.Store{}
	if opts.varsFile != "" {
		if err := readJSON(opts.varsFile, &vars); err != nil {
			return err
		}
	}
	session := render.NewSession(render.NewRenderer(), &doc, vars)
	for _, id := range opts.hidden {
		session.Hide(id)
	}
	var intents []render.Intent
	for _, id := range opts.taps {
		fired, err := session.Tap(id)
		if err != nil {
			return err
		}
		intents = append(intents, fired...)
	}
	views := session.Render()
	switch opts.format {
	case "html":
		return render.WriteHTML(out, views)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"views":     views,
			"intents":   intents,
			"variables": session.Variables(),
		})
	}
	return fmt.Errorf("unknown format %s", opts.format)
}

func readJSON(file string, v any) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	return nil
}
