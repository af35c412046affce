// Package report renders the latest outputs as console tables.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"orcaScanner/internal/model"
	"orcaScanner/internal/outputs"
	"orcaScanner/internal/ranking"
)

// Printer writes the sections of an output directory.
type Printer struct {
	out io.Writer
	dir outputs.Dir
	top int
}

func NewPrinter(w io.Writer, dir string, top int) *Printer {
	if w == nil {
		w = os.Stdout
	}
	if top <= 0 {
		top = 10
	}
	return &Printer{out: w, dir: outputs.Dir{Path: dir}, top: top}
}

// Print renders the named sections in order. A missing file prints a notice
// instead of failing; a corrupt one is an error.
func (p *Printer) Print(sections []string) error {
	for _, s := range sections {
		var err error
		switch s {
		case "regime":
			err = p.regime()
		case "ranked":
			err = p.ranked()
		case "shortlist":
			err = p.shortlist()
		case "plans":
			err = p.plans()
		case "allocation":
			err = p.allocation()
		case "alerts":
			err = p.alerts()
		case "summary":
			err = p.summary()
		default:
			err = fmt.Errorf("unknown section %q", s)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}
	}
	return nil
}

// load reads name into v. ok is false when the file does not exist yet.
func (p *Printer) load(name string, v any) (bool, error) {
	if err := outputs.ReadJSON(p.dir.File(name), v); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(p.out, "\n%s: not written yet\n", name)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (p *Printer) title(format string, args ...any) {
	fmt.Fprintf(p.out, "\n"+format+"\n", args...)
}

func (p *Printer) regime() error {
	var st model.RegimeState
	if ok, err := p.load(outputs.RegimeStateFile, &st); !ok {
		return err
	}
	p.title("Regime %s (proposed %s) score %.3f confidence %.2f at %s",
		st.Regime, st.ProposedRegime, st.Score, st.Confidence, st.UpdatedAt.Format("2006-01-02 15:04 MST"))

	m := st.Metrics
	table := tablewriter.NewWriter(p.out)
	table.Header("Metric", "Value", "Signal")
	table.Append("vol 30d %", optional(m.Vol30dPct, 2), fmt.Sprintf("%.3f", st.Signals.Volatility))
	table.Append("vol 7d %", optional(m.Vol7dPct, 2), "")
	table.Append("vol ratio", optional(m.VolRatio, 3), fmt.Sprintf("%.3f", st.Signals.VolRatio))
	table.Append("funding APR %", optional(m.FundingAprPct, 2), fmt.Sprintf("%.3f", st.Signals.Funding))
	table.Append("turnover trend", optional(m.TurnoverTrend, 3)+" "+m.TurnoverTrendKind, fmt.Sprintf("%.3f", st.Signals.TurnoverTrend))
	table.Append("spot USD", optional(m.SpotPriceUSD, 2), "")
	table.Render()

	if st.Hysteresis.Applied {
		fmt.Fprintf(p.out, "  hysteresis held previous %s\n", st.Hysteresis.PreviousRegime)
	}
	p.notes(st.Notes)
	return nil
}

func (p *Printer) ranked() error {
	var doc ranking.Output
	if ok, err := p.load(outputs.RankedPoolsFile, &doc); !ok {
		return err
	}
	a := doc.Analytics
	p.title("Ranked pools: %d of %d (classified %d, eligible %d, depth fallback %d)",
		len(doc.Pools), a.Universe, a.Classified, a.Eligible, a.DepthFallback)

	table := tablewriter.NewWriter(p.out)
	table.Header("#", "Pair", "Type", "Score", "TVL", "Vol 24h", "Fee APR %", "Depth ±1%", "Stability")
	for i, rp := range doc.Pools {
		if i >= p.top {
			break
		}
		table.Append(
			fmt.Sprintf("%d", rp.Rank),
			rp.Pair(),
			string(rp.Type),
			fmt.Sprintf("%.1f", rp.Score),
			usd(rp.TVLUSD),
			usd(rp.Stats24h.VolumeUSD),
			fmt.Sprintf("%.1f", rp.FeeAprPct),
			fmt.Sprintf("%.2f%%", rp.Depth.Ratio1Pct*100),
			fmt.Sprintf("%.2f", rp.StabilityScore),
		)
	}
	table.Render()
	return nil
}

func (p *Printer) shortlist() error {
	var sl model.Shortlist
	if ok, err := p.load(outputs.ShortlistFile, &sl); !ok {
		return err
	}
	p.title("Shortlist (%s): %d of %d, %d candidates", sl.Regime, len(sl.Selected), sl.MaxPools, sl.Candidates)

	table := tablewriter.NewWriter(p.out)
	table.Header("Slot", "Pair", "Type", "Score", "Composite", "Reasons")
	for _, item := range sl.Selected {
		table.Append(
			fmt.Sprintf("%d", item.Slot),
			item.Pool.Pair,
			string(item.Pool.Type),
			fmt.Sprintf("%.1f", item.Pool.Score),
			fmt.Sprintf("%.3f", item.Composite),
			strings.Join(item.Reasons, ", "),
		)
	}
	table.Render()
	p.notes(sl.Notes)
	return nil
}

func (p *Printer) plans() error {
	var doc outputs.Plans
	if ok, err := p.load(outputs.PlansFile, &doc); !ok {
		return err
	}
	p.title("Plans (%s)", doc.Regime)

	table := tablewriter.NewWriter(p.out)
	table.Header("Pair", "Preset", "Half width %", "Lower", "Upper", "Hedge")
	for _, plan := range doc.Plans {
		for _, preset := range plan.Presets {
			hedgeCol := ""
			if preset.Name == model.PresetBase {
				hedgeCol = hedgeSummary(plan.Hedge)
			}
			table.Append(
				plan.Pool.Pair,
				string(preset.Name),
				fmt.Sprintf("%.2f", preset.HalfWidthPct),
				price(preset.Lower),
				price(preset.Upper),
				hedgeCol,
			)
		}
	}
	table.Render()
	p.notes(doc.Notes)
	return nil
}

func (p *Printer) allocation() error {
	var alloc model.Allocation
	if ok, err := p.load(outputs.AllocationFile, &alloc); !ok {
		return err
	}
	p.title("Allocation (%s)", alloc.Regime)

	table := tablewriter.NewWriter(p.out)
	table.Header("Pair", "Type", "Weight %")
	for _, item := range alloc.Items {
		table.Append(item.Pool.Pair, string(item.Pool.Type), fmt.Sprintf("%d", item.WeightPct))
	}
	table.Render()
	p.notes(alloc.Notes)
	return nil
}

func (p *Printer) alerts() error {
	var list []model.Alert
	if ok, err := p.load(outputs.AlertsFile, &list); !ok {
		return err
	}
	p.title("Alerts: %d", len(list))
	if len(list) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(p.out)
	table.Header("Severity", "Kind", "Pool", "Message")
	for _, a := range list {
		pool := ""
		if a.Pool != nil {
			pool = a.Pool.Pair
		}
		table.Append(string(a.Severity), string(a.Kind), pool, a.Message)
	}
	table.Render()
	return nil
}

func (p *Printer) summary() error {
	var s model.PerformanceSummary
	if ok, err := p.load(outputs.PerformanceSummaryFile, &s); !ok {
		return err
	}
	p.title("Performance over %d days: %d runs, latest %s, %d regime changes, %d alerts",
		s.WindowDays, s.Entries, s.LatestRegime, s.RegimeChanges, s.TotalAlerts)

	type freq struct {
		address string
		count   int
	}
	var rows []freq
	for addr, n := range s.ShortlistFrequency {
		rows = append(rows, freq{addr, n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].address < rows[j].address
	})

	table := tablewriter.NewWriter(p.out)
	table.Header("Pool", "Shortlisted")
	for _, r := range rows {
		table.Append(r.address, fmt.Sprintf("%d", r.count))
	}
	table.Render()
	p.notes(s.Notes)
	return nil
}

func (p *Printer) notes(notes []string) {
	for _, n := range notes {
		fmt.Fprintf(p.out, "  - %s\n", n)
	}
}

func hedgeSummary(h model.HedgePlan) string {
	if !h.Enabled {
		return fmt.Sprintf("none (delta %.2f)", h.DeltaFraction)
	}
	sol := "n/a"
	if h.ShortSOLPer10k != nil {
		sol = fmt.Sprintf("%.2f SOL", *h.ShortSOLPer10k)
	}
	return fmt.Sprintf("short %s / %s per 10k (%s)", usd(h.ShortUSDPer10k), sol, h.DepositRatioSource)
}

func optional(v *float64, places int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", places, *v)
}

func usd(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fk", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

func price(v float64) string {
	if v != 0 && v < 0.01 {
		return fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("%.4f", v)
}
