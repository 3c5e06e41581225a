package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/meltgauge/pkg/errors"
	"github.com/matzehuels/meltgauge/pkg/gauge"
)

type heightsOpts struct {
	capacity  int
	budget    int
	minHeight int
	probe     int
}

func (c *CLI) heightsCommand() *cobra.Command {
	opts := heightsOpts{budget: 48, minHeight: gauge.DefaultMinHeight}

	cmd := &cobra.Command{
		Use:   "heights [quantities...]",
		Short: "Compute layer heights for fluid quantities",
		Long: `Compute the drawn height of each fluid layer, bottom first.

Capacity defaults to the sum of the quantities. With --probe, the offset
(counted upward from the bottom row) is resolved to a layer as well.`,
		Example: `  meltgauge heights --capacity 1000 --budget 48 250 250
  meltgauge heights --budget 10 --min 0 --probe 4 1 1 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			quantities, err := parseQuantities(args)
			if err != nil {
				return err
			}
			if opts.budget < 0 || opts.minHeight < 0 {
				return errs.New(errs.ErrCodeInvalidInput, "budget and min must not be negative")
			}

			heights := gauge.ComputeHeights(quantities, opts.capacity, opts.budget, opts.minHeight)
			fmt.Println(heightsTable(quantities, heights))

			if cmd.Flags().Changed("probe") {
				if i, ok := gauge.FindLayerAt(heights, opts.probe); ok {
					printSuccess("Offset %s is layer %s", StyleNumber.Render(strconv.Itoa(opts.probe)), StyleNumber.Render(strconv.Itoa(i)))
				} else {
					printInfo("Offset %s is above all layers", StyleNumber.Render(strconv.Itoa(opts.probe)))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.capacity, "capacity", 0, "tank capacity in mB (default: sum of quantities)")
	cmd.Flags().IntVar(&opts.budget, "budget", opts.budget, "pixel budget (widget height)")
	cmd.Flags().IntVar(&opts.minHeight, "min", opts.minHeight, "minimum layer height")
	cmd.Flags().IntVar(&opts.probe, "probe", 0, "offset above the bottom row to resolve")

	return cmd
}

func parseQuantities(args []string) ([]int, error) {
	quantities := make([]int, len(args))
	for i, a := range args {
		q, err := strconv.Atoi(a)
		if err != nil || q < 0 {
			return nil, errs.New(errs.ErrCodeInvalidInput, "quantity %q is not a non-negative integer", a)
		}
		quantities[i] = q
	}
	return quantities, nil
}

// heightsTable lists layers bottom first with the offsets each one covers.
func heightsTable(quantities, heights []int) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(heights))
	offset := 0
	for i, h := range heights {
		span := "-"
		if h > 0 {
			span = fmt.Sprintf("%d..%d", offset, offset+h-1)
		}
		rows = append(rows, []string{strconv.Itoa(i), strconv.Itoa(quantities[i]), strconv.Itoa(h), span})
		offset += h
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Layer", "Quantity", "Height", "Offsets").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
