package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nurbsdiff/nurbsdiff/cli"
	"github.com/nurbsdiff/nurbsdiff/diffmodel"
	"github.com/nurbsdiff/nurbsdiff/examplemodel"
)

func diffCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "diff <older.scene.json> <newer.scene.json>",
		Short: "Write the patch between two scene documents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			older, newer, err := loadScenePair(args[0], args[1])
			if err != nil {
				return err
			}

			modelType := examplemodel.NewSchema()
			session := cli.NewSession(flagInteractive, false)

			delta, err := diffmodel.Compare(
				modelType,
				diffmodel.NewFileDescription(args[0]),
				diffmodel.NewFileDescription(args[1]),
				older, newer,
				examplemodel.Tables(older, modelType.Components),
				examplemodel.Tables(newer, modelType.Components),
				session,
			)
			if err != nil {
				return fmt.Errorf("comparing scenes: %w", err)
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				if err := delta.Write(f); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
			} else if err := delta.Write(out); err != nil {
				return err
			}

			// Exit code 0 = no differences, 1 = differences found, matching
			// the diff(1) exit-code contract.
			if delta.HasDifferences() {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the patch to a file instead of stdout")
	return cmd
}

func loadScenePair(olderPath, newerPath string) (*examplemodel.Scene, *examplemodel.Scene, error) {
	older, err := loadScene(olderPath)
	if err != nil {
		return nil, nil, err
	}
	newer, err := loadScene(newerPath)
	if err != nil {
		return nil, nil, err
	}
	return older, newer, nil
}

func loadScene(path string) (*examplemodel.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	scene, err := examplemodel.LoadScene(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return scene, nil
}
