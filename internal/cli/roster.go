package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/shiftboard/pkg/timex"
)

// periodFlags binds --from and --to. Values take any shape the timestamp
// normalizer accepts; dates are the usual choice.
type periodFlags struct {
	from, to string
}

func (p *periodFlags) bind(cmd *cobra.Command, required bool) {
	cmd.Flags().StringVar(&p.from, "from", "", "first day, e.g. 2026-01-05")
	cmd.Flags().StringVar(&p.to, "to", "", "last day, inclusive")
	if required {
		_ = cmd.MarkFlagRequired("from")
		_ = cmd.MarkFlagRequired("to")
	}
}

func (p *periodFlags) parse() (from, to time.Time, err error) {
	if p.from != "" {
		if from, err = timex.Normalize(p.from); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--from: %w", err)
		}
	}
	if p.to != "" {
		if to, err = timex.Normalize(p.to); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--to: %w", err)
		}
	}
	return from, to, nil
}

func newShiftsCommand(e *env) *cobra.Command {
	var period periodFlags

	cmd := &cobra.Command{
		Use:   "shifts",
		Short: "List rostered shifts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := period.parse()
			if err != nil {
				return err
			}
			shifts, err := e.manager.ListShifts(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			if e.json {
				return writeJSON(cmd.OutOrStdout(), shifts)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "STAFF\tROLE\tSTART\tEND\tHOURS")
			for _, s := range shifts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\n",
					s.StaffName, s.Role,
					s.Start.UTC().Format("Mon 2006-01-02 15:04"),
					s.End.UTC().Format("15:04"),
					s.Duration().Hours())
			}
			return tw.Flush()
		},
	}
	period.bind(cmd, false)
	return cmd
}

func newItemsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "List the consumption-item catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := e.manager.ListConsumptionItems(cmd.Context())
			if err != nil {
				return err
			}
			if e.json {
				return writeJSON(cmd.OutOrStdout(), items)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "NAME\tCATEGORY\tPRICE\tACTIVE\tUPDATED")
			for _, it := range items {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%t\t%s\n",
					it.Name, it.Category, it.UnitPrice, it.Active,
					it.UpdatedAt.UTC().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
}

func newPayrollCommand(e *env) *cobra.Command {
	var period periodFlags

	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Summarize hours and pay for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := period.parse()
			if err != nil {
				return err
			}
			sum, err := e.manager.PayrollSummary(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			if e.json {
				return writeJSON(cmd.OutOrStdout(), sum)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Period:\t%s to %s\n",
				sum.PeriodStart.Format(time.DateOnly), sum.PeriodEnd.Format(time.DateOnly))
			fmt.Fprintln(tw, "STAFF\tHOURS\tRATE\tGROSS")
			for _, l := range sum.Lines {
				fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\n", l.StaffName, l.Hours, l.Rate, l.Gross)
			}
			fmt.Fprintf(tw, "TOTAL\t%.2f\t\t%.2f\n", sum.TotalHours, sum.TotalGross)
			return tw.Flush()
		},
	}
	period.bind(cmd, true)
	return cmd
}
