package market

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// WriteSummary prints the table statistics as a plain-text report.
func (t *Table) WriteSummary(w io.Writer) error {
	s, err := t.Stats()
	if errors.Is(err, ErrNoData) {
		_, err = fmt.Fprintln(w, "No market data available")
		return err
	}
	if err != nil {
		return err
	}

	lines := []string{
		"",
		"KALSHI MARKETS SUMMARY",
		"======================",
		fmt.Sprintf("%-24s %d", "Total Markets:", s.TotalMarkets),
		fmt.Sprintf("%-24s %d (%s%%)", "Markets with Liquidity:", s.MarketsWithLiquidity, s.LiquidityPercentage),
		fmt.Sprintf("%-24s %d", "Total Volume:", s.TotalVolume),
		fmt.Sprintf("%-24s %s", "Last Updated:", s.LastUpdated.UTC().Format(time.RFC3339)),
		"",
		"Categories:",
	}
	for _, c := range s.Categories {
		name := c.Category
		if name == "" {
			name = "(none)"
		}
		lines = append(lines, fmt.Sprintf("  %-30s %6d markets", name, c.Count))
	}
	lines = append(lines, "")

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
