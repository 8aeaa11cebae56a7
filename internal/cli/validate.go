package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Resonance/internal/casefile"
)

// NewValidateCmd создаёт команду проверки case-файла.
//
// Валидация полностью локальная: ни одного сетевого вызова, API-ключ
// не требуется.
func NewValidateCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "validate CASE_FILE",
		Short: "Validate a case file without submitting anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			c, err := casefile.Load(args[0])
			if err != nil {
				return err
			}

			spec, err := casefile.Build(c)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Case %q is valid", spec.Name))
			out.Print(
				[]string{"FIELD", "VALUE"},
				[][]string{
					{"geometry", spec.Geometry.Path},
					{"format", spec.Geometry.Format + " (" + spec.Geometry.Unit + ")"},
					{"material", spec.Material.Name},
					{"supports", strconv.Itoa(len(spec.FixedSupports))},
					{"load", spec.Load.Name},
					{"sweep", fmt.Sprintf("%g–%g Hz, %d steps", spec.Solver.StartFrequency, spec.Solver.EndFrequency, spec.Solver.Steps)},
					{"modes", strconv.Itoa(spec.Solver.Modes)},
					{"mesh fineness", strconv.Itoa(spec.Mesh.Fineness)},
				},
				spec,
			)
			return nil
		},
	}
}
