package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the saved form inputs",
		Args:  cobra.NoArgs,
		RunE:  runState,
	}
}

func runState(cmd *cobra.Command, _ []string) error {
	client, err := buildClient(cmd)
	if err != nil {
		return err
	}
	defer client.Logger.Sync()

	view := client.Controller.View()

	out, err := json.MarshalIndent(struct {
		Background string `json:"background"`
		Intimacy   int    `json:"intimacy"`
		Tone       string `json:"tone"`
		CanSubmit  bool   `json:"can_submit"`
		StateDir   string `json:"state_dir"`
	}{
		Background: view.Snapshot.Background,
		Intimacy:   view.Snapshot.Intimacy,
		Tone:       string(view.Snapshot.Tone),
		CanSubmit:  view.CanSubmit,
		StateDir:   client.Config.StateDir,
	}, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
