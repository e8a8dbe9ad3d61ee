package report

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// WriteText writes a plain-text report of a summary and its margin table.
// Rows may be empty.
func WriteText(w io.Writer, title string, s Summary, rows []MarginRow) error {
	var b strings.Builder

	if title == "" {
		title = "Tour pricing"
	}
	fmt.Fprintf(&b, "%s\n\n", title)

	fmt.Fprintf(&b, "Ticket: %s\n", s.TicketMode)
	fmt.Fprintf(&b, "Group: %d people (normal %d / early %d / student %d)\n",
		s.TargetPeople, s.NormalCount, s.EarlyCount, s.StudentCount)
	if s.CapacityExceeded {
		fmt.Fprintf(&b, "Note: %d people is above the recommended %d, a bigger bus may cost extra\n",
			s.TargetPeople, s.RecommendedCapacity)
	}

	b.WriteString("\nPrices:\n")
	fmt.Fprintf(&b, "  Normal: %s\n", Money(s.NormalPrice))
	fmt.Fprintf(&b, "  Early bird: %s\n", Money(s.EarlyPrice))
	fmt.Fprintf(&b, "  Student: %s\n", Money(s.StudentPrice))
	fmt.Fprintf(&b, "  Average: %s\n", Money(s.AveragePriceBeforeFee))

	b.WriteString("\nCosts:\n")
	fmt.Fprintf(&b, "  Per person: %s\n", Money(s.CostPerPerson))
	fmt.Fprintf(&b, "  Card fee per person: %s\n", Money(s.AvgCardFeePerPerson))
	fmt.Fprintf(&b, "  Fixed: %s\n", Money(s.FixedCostTotal))

	b.WriteString("\nOutlook:\n")
	fmt.Fprintf(&b, "  Breakeven: %s\n", Headcount(s.BreakevenGroupSize))
	fmt.Fprintf(&b, "  Margin at 15: %s\n", Percent(s.GrossMarginAt15))
	fmt.Fprintf(&b, "  Margin at %d: %s\n", s.RecommendedCapacity, Percent(s.GrossMarginAt17))
	fmt.Fprintf(&b, "  Margin at %d: %s\n", s.TargetPeople, Percent(s.GrossMarginAtTarget))
	fmt.Fprintf(&b, "  Target margin: %d%%\n", int(math.Round(s.TargetGrossMarginRate*100)))
	fmt.Fprintf(&b, "  Suggested normal price for %d people: %s\n", s.DesiredPeople, OptionalMoney(s.SuggestedNormalPrice))
	fmt.Fprintf(&b, "  Status: %s\n", RiskLabel(s.Risk))

	if len(rows) > 0 {
		b.WriteString("\nMargins:\n")
		for _, row := range rows {
			fmt.Fprintf(&b, "  %3d people  %7s  %14s  %s\n",
				row.People, Percent(row.MarginRate), Money(row.GrossProfit), rowLabel(row.Status))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
