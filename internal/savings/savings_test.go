package savings

import (
	"errors"
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func TestCompoundInterest(t *testing.T) {
	got, err := CompoundInterest(10000, 8, 10, 1)
	if err != nil {
		t.Fatal(err)
	}
	// 10000 * 1.08^10
	if !near(got.FinalAmount, 21589.25) || !near(got.InterestEarned, 11589.25) {
		t.Errorf("got %+v", got)
	}
	if !near(got.TotalReturn, 115.89) {
		t.Errorf("total return = %f", got.TotalReturn)
	}

	monthly, err := CompoundInterest(10000, 8, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if monthly.Frequency != 12 || monthly.FinalAmount <= got.FinalAmount {
		t.Errorf("monthly compounding should beat yearly: %+v", monthly)
	}

	if _, err := CompoundInterest(0, 8, 10, 12); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSIP(t *testing.T) {
	got, err := SIP(1000, 12, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalInvested != 12000 || !near(got.FinalValue, 12809.33) {
		t.Errorf("got %+v", got)
	}

	zero, err := SIP(500, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if zero.FinalValue != 12000 || zero.Returns != 0 {
		t.Errorf("zero rate: %+v", zero)
	}

	if _, err := SIP(1000, 12, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGrowthSeries(t *testing.T) {
	points, err := GrowthSeries(1000, 10, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 4 {
		t.Fatalf("len = %d", len(points))
	}
	if points[0].Simple != 1000 || points[0].Compound != 1000 {
		t.Errorf("year 0 = %+v", points[0])
	}
	if points[3].Simple != 1300 || !near(points[3].Compound, 1331) {
		t.Errorf("year 3 = %+v", points[3])
	}
}

func TestCompare(t *testing.T) {
	rows, err := Compare(10000, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(ReferenceOptions) {
		t.Fatalf("rows = %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].FinalAmount <= rows[i-1].FinalAmount {
			t.Errorf("%s should outgrow %s", rows[i].Option, rows[i-1].Option)
		}
	}
	if rows[2].Option != "PPF" || !near(rows[2].Returns, rows[2].FinalAmount-10000) {
		t.Errorf("unexpected row %+v", rows[2])
	}
}
