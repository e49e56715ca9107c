package charts

import (
	"bytes"
	"testing"

	"fintrack/internal/core"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func TestCategoryPie(t *testing.T) {
	g := NewGenerator()

	img, err := g.CategoryPie([]core.CategoryTotal{
		{Name: "Rent", Cents: 170000},
		{Name: "Groceries", Cents: 12045},
		{Name: core.UncategorizedLabel, Cents: 999},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(img, pngHeader) {
		t.Fatalf("expected PNG output, got %d bytes", len(img))
	}
}

func TestCategoryPieEmpty(t *testing.T) {
	g := NewGenerator()

	for _, rows := range [][]core.CategoryTotal{
		nil,
		{},
		{{Name: "Zero", Cents: 0}},
	} {
		img, err := g.CategoryPie(rows)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if img != nil {
			t.Fatalf("expected no image for %v", rows)
		}
	}
}

func TestDailyExpenseLine(t *testing.T) {
	g := NewGenerator()

	img, err := g.DailyExpenseLine([]core.DailyTotal{
		{Date: "2025-10-01", Cents: 300},
		{Date: "2025-10-02", Cents: 1550},
		{Date: "2025-10-15", Cents: 480},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(img, pngHeader) {
		t.Fatalf("expected PNG output, got %d bytes", len(img))
	}
}

func TestDailyExpenseLineTooFewPoints(t *testing.T) {
	g := NewGenerator()

	img, err := g.DailyExpenseLine([]core.DailyTotal{{Date: "2025-10-01", Cents: 300}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if img != nil {
		t.Fatal("expected no image for a single point")
	}
}
