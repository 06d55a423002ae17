// Package display renders plans for the terminal with lipgloss and runs
// the interactive planner on Bubble Tea.
package display

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/hammamikhairi/stockpile/internal/domain"
	"github.com/hammamikhairi/stockpile/internal/engine"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	// BannerStyle is the muted slate used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8")).
			Padding(0, 1)

	numberStyle = cellStyle.Align(lipgloss.Right)

	totalStyle = numberStyle.
			Foreground(lipgloss.Color("#fde68a"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd")).
			Bold(true)

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))
)

// FormatQuantity renders a quantity with thousands separators. Whole
// numbers have no decimals; everything else gets two.
func FormatQuantity(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return humanize.Comma(int64(v))
	}
	return humanize.FormatFloat("#,###.##", v)
}

// Hint renders a dimmed line.
func Hint(text string) string { return secondaryStyle.Render(text) }

// Urgent renders an error line.
func Urgent(text string) string { return urgentStyle.Render(text) }

var planColumns = []string{"Item", "Unit", "Adult", "Child", "Dog", "Cat", "Household", "Total"}

// RenderPlan renders the supply list as a table followed by the
// nutrition summary. Class columns with no members are shown as "-".
func RenderPlan(p *domain.Plan) string {
	var b strings.Builder

	h := p.Household
	b.WriteString(titleStyle.Render(fmt.Sprintf("Supplies for %s", describeHousehold(h))))
	b.WriteByte('\n')

	if len(p.SupplyList) == 0 {
		b.WriteString(Hint("  nothing to stock for this selection"))
		b.WriteByte('\n')
	} else {
		rows := make([][]string, 0, len(p.SupplyList))
		for _, e := range p.SupplyList {
			rows = append(rows, []string{
				e.Name,
				e.Unit,
				classCell(e.PerAdult, h.Adults),
				classCell(e.PerChild, h.Children),
				classCell(e.PerDog, h.Dogs),
				classCell(e.PerCat, h.Cats),
				FormatQuantity(e.PerHousehold + e.PerFamily),
				FormatQuantity(e.Total),
			})
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(borderStyle).
			Headers(planColumns...).
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				case col == len(planColumns)-1:
					return totalStyle
				case col >= 2:
					return numberStyle
				default:
					return cellStyle
				}
			})
		b.WriteString(t.String())
		b.WriteByte('\n')
	}

	n := p.TotalNutrition
	if n != (domain.NutritionTotals{}) {
		b.WriteString(titleStyle.Render("Nutrition"))
		b.WriteByte('\n')
		fmt.Fprintf(&b, "  Calories %s kcal  Protein %s g  Fat %s g  Carbohydrates %s g\n",
			FormatQuantity(n.Calories), FormatQuantity(n.Protein), FormatQuantity(n.Fat), FormatQuantity(n.Carbs))
	}
	return b.String()
}

func classCell(v float64, count int) string {
	if count == 0 {
		return "-"
	}
	return FormatQuantity(v)
}

func describeHousehold(h domain.Household) string {
	var parts []string
	add := func(n int, one, many string) {
		switch {
		case n == 1:
			parts = append(parts, "1 "+one)
		case n > 1:
			parts = append(parts, fmt.Sprintf("%d %s", n, many))
		}
	}
	add(h.Adults, "adult", "adults")
	add(h.Children, "child", "children")
	add(h.Dogs, "dog", "dogs")
	add(h.Cats, "cat", "cats")
	if len(parts) == 0 {
		parts = append(parts, "nobody")
	}
	days := "days"
	if h.Duration == 1 {
		days = "day"
	}
	return fmt.Sprintf("%s over %d %s", strings.Join(parts, ", "), h.Duration, days)
}

// RenderDefaults renders the catalog, override and effective value of
// every rate field an item defines or overrides.
func RenderDefaults(d *engine.ItemDefaults) string {
	fields := make([]string, 0, len(d.Effective))
	for f := range d.Effective {
		fields = append(fields, f)
	}
	for f := range d.Overrides {
		if _, ok := d.Effective[f]; !ok {
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)

	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		row := []string{f, "-", "-", "-"}
		if v, ok := d.Catalog[f]; ok {
			row[1] = FormatQuantity(v)
		}
		if v, ok := d.Overrides[f]; ok {
			row[2] = FormatQuantity(v)
		}
		if v, ok := d.Effective[f]; ok {
			row[3] = FormatQuantity(v)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Field", "Catalog", "Override", "Effective").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})

	return titleStyle.Render(fmt.Sprintf("%s (%s)", d.Name, d.Unit)) + "\n" + t.String() + "\n"
}

// RenderCategories lists categories and groups.
func RenderCategories(cats []domain.CategorySummary, groups []domain.Group) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Categories"))
	b.WriteByte('\n')
	for _, c := range cats {
		fmt.Fprintf(&b, "  %-16s %s %s\n", c.Key, c.Name, Hint(fmt.Sprintf("(%d items)", c.ItemCount)))
	}
	if len(groups) > 0 {
		b.WriteString(titleStyle.Render("Groups"))
		b.WriteByte('\n')
		for _, g := range groups {
			fmt.Fprintf(&b, "  %-16s %s %s\n", g.Key, g.Name, Hint(strings.Join(g.Categories, ", ")))
		}
	}
	return b.String()
}
