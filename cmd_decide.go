package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nstehr/arena-core/agent"
	"github.com/nstehr/arena-core/model"
	"github.com/nstehr/arena-core/tuning"
)

var decideVerbose bool

var decideCmd = &cobra.Command{
	Use:   "decide [snapshot.json]",
	Short: "Decide one tick from a snapshot file (or stdin) and print the moves",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDecide,
}

func init() {
	decideCmd.Flags().StringVar(&tuningPath, "tuning", "", "YAML tuning override file")
	decideCmd.Flags().BoolVar(&decideVerbose, "verbose", false, "also print the objective, destination and fired rules")
}

func runDecide(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	snap, err := model.DecodeSnapshot(data)
	if err != nil {
		return err
	}

	t, err := tuning.Load(tuningPath)
	if err != nil {
		return err
	}
	a, err := agent.New(t, nil)
	if err != nil {
		return err
	}
	d := a.Play(snap)

	var out any = d.Moves
	if decideVerbose {
		out = d
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
