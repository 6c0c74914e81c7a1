package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nurbsdiff/nurbsdiff/cli"
	"github.com/nurbsdiff/nurbsdiff/diffmodel"
	"github.com/nurbsdiff/nurbsdiff/examplemodel"
	"github.com/nurbsdiff/nurbsdiff/internal/config"
)

func diff3Cmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "diff3 <base.scene.json> <ours.scene.json> <theirs.scene.json>",
		Short: "Three-way merge two independent changesets against a common base",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := loadScene(args[0])
			if err != nil {
				return err
			}
			ours, err := loadScene(args[1])
			if err != nil {
				return err
			}
			theirs, err := loadScene(args[2])
			if err != nil {
				return err
			}

			modelType := examplemodel.NewSchema()
			session := cli.NewSession(flagInteractive, false)

			ourDelta, err := diffmodel.Compare(modelType,
				diffmodel.NewFileDescription(args[0]), diffmodel.NewFileDescription(args[1]),
				base, ours,
				examplemodel.Tables(base, modelType.Components), examplemodel.Tables(ours, modelType.Components),
				session)
			if err != nil {
				return fmt.Errorf("comparing base to ours: %w", err)
			}

			theirDelta, err := diffmodel.Compare(modelType,
				diffmodel.NewFileDescription(args[0]), diffmodel.NewFileDescription(args[2]),
				base, theirs,
				examplemodel.Tables(base, modelType.Components), examplemodel.Tables(theirs, modelType.Components),
				session)
			if err != nil {
				return fmt.Errorf("comparing base to theirs: %w", err)
			}

			merged, err := ourDelta.Merge(theirDelta)
			if err != nil {
				merged, err = resolveMergeConflict(config.Get().MergeStrategy, ourDelta, theirDelta, err)
				if err != nil {
					return err
				}
			}

			result, err := loadScene(args[0])
			if err != nil {
				return err
			}
			examplemodel.BindTables(modelType.Components, result)
			if err := merged.Apply(result, session); err != nil {
				return fmt.Errorf("applying merged delta: %w", err)
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				return examplemodel.SaveScene(f, result)
			}
			return examplemodel.SaveScene(out, result)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the merged scene to a file instead of stdout")
	return cmd
}

// resolveMergeConflict applies the configured fallback for a merge that
// ModelDelta.Merge couldn't resolve on its own. "fail" (the default)
// just surfaces mergeErr; "prefer-ours"/"prefer-theirs" take one side's
// delta wholesale instead of a property-level merge.
func resolveMergeConflict(strategy config.MergeStrategy, ours, theirs *diffmodel.ModelDelta, mergeErr error) (*diffmodel.ModelDelta, error) {
	switch strategy {
	case config.MergeStrategyPreferOurs:
		return ours, nil
	case config.MergeStrategyPreferTheirs:
		return theirs, nil
	default:
		return nil, fmt.Errorf("merge conflict: %w", mergeErr)
	}
}
