package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/futig/partner-backend/internal/client/form"
	"github.com/futig/partner-backend/internal/entity"
	"github.com/futig/partner-backend/internal/pkg/formatter"
	"github.com/spf13/cobra"
)

var (
	background   string
	intimacy     int
	tone         string
	outputFormat string
	outputPath   string
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Submit the form and print three suggestions",
		Long: `Submit the form and print the suggestions as Markdown.

Omitted flags keep the saved values. The background must be longer than
five characters after trimming.`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}

	cmd.Flags().StringVarP(&background, "background", "b", "", "What happened and what you want to work out")
	cmd.Flags().IntVarP(&intimacy, "intimacy", "i", entity.DefaultIntimacy, "Closeness of the relationship, 1-10")
	cmd.Flags().StringVarP(&tone, "tone", "t", string(entity.DefaultTone), "Tone: 温和, 直接, 坚定, 幽默, 理性 or 关怀")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", string(entity.FormatText), "Output format: text, markdown or json")
	cmd.Flags().StringVarP(&outputPath, "out", "o", "", "Write the result to this file instead of stdout")

	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	resultFormatter, err := formatter.NewFactory().Create(entity.ResultFormat(outputFormat))
	if err != nil {
		return err
	}

	client, err := buildClient(cmd)
	if err != nil {
		return err
	}
	defer client.Logger.Sync()

	c := client.Controller

	if cmd.Flags().Changed("background") {
		c.SetBackground(background)
	}
	if cmd.Flags().Changed("intimacy") {
		c.SetIntimacy(intimacy)
	}
	if cmd.Flags().Changed("tone") {
		if err := c.SetTone(entity.Tone(tone)); err != nil {
			return err
		}
	}

	if !c.CanSubmit() {
		return fmt.Errorf("%w: background must be longer than 5 characters", form.ErrSubmitDisabled)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", form.LabelSubmitting)

	view, err := submitForm(cmd.Context(), c)
	if err != nil {
		return err
	}

	out, err := resultFormatter.Format(entity.SuggestionResult{
		Snapshot: view.Snapshot,
		Markdown: view.Markdown,
	})
	if err != nil {
		return fmt.Errorf("format result: %w", err)
	}

	if outputPath == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}

	path := outputPath
	if filepath.Ext(path) == "" {
		path += resultFormatter.FileExtension()
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "saved to %s\n", path)
	return nil
}

// submitForm sends the form and returns the resulting view. A failed request
// is reported with the same message the view shows.
func submitForm(ctx context.Context, c *form.Controller) (form.View, error) {
	err := c.Submit(ctx)
	view := c.View()
	if err == nil {
		return view, nil
	}
	if view.Error == "" {
		return view, err
	}
	return view, errors.New(view.Error)
}
