package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nurbsdiff/nurbsdiff/cli"
	"github.com/nurbsdiff/nurbsdiff/diffmodel"
	"github.com/nurbsdiff/nurbsdiff/examplemodel"
)

func patchCmd() *cobra.Command {
	var reverse bool
	var output string

	cmd := &cobra.Command{
		Use:   "patch <scene.json> <patch-file>",
		Short: "Apply a patch to a scene document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := loadScene(args[0])
			if err != nil {
				return err
			}

			patchFile, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[1], err)
			}
			defer patchFile.Close()

			modelType := examplemodel.NewSchema()
			delta, err := diffmodel.Read(patchFile, modelType)
			if err != nil {
				return fmt.Errorf("reading patch: %w", err)
			}
			if reverse {
				delta = delta.Reverse()
			}

			examplemodel.BindTables(modelType.Components, scene)
			session := cli.NewSession(flagInteractive, false)
			if err := delta.Apply(scene, session); err != nil {
				return fmt.Errorf("applying patch: %w", err)
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				return examplemodel.SaveScene(f, scene)
			}
			return examplemodel.SaveScene(out, scene)
		},
	}

	cmd.Flags().BoolVar(&reverse, "reverse", false, "apply the patch in reverse")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the patched scene to a file instead of stdout")
	return cmd
}
