package core

// UncategorizedLabel names the bucket for expenses without a category in
// breakdowns and charts.
const UncategorizedLabel = "Uncategorized"

// MonthTotals carries the income and expense sums for one calendar month,
// already formatted as decimal strings ("0.00" when no rows matched).
type MonthTotals struct {
	Income  string
	Expense string
}

// CategoryTotal is one row of a category breakdown.
type CategoryTotal struct {
	Name  string
	Cents int64
}

// Amount returns the total as a display string.
func (c CategoryTotal) Amount() string {
	return FormatAmount(c.Cents)
}

// DailyTotal is the expense sum for a single day.
type DailyTotal struct {
	Date  string // YYYY-MM-DD
	Cents int64
}
