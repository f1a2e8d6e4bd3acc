package workflow

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmdatafocus/gmcalc_backend/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeInterimSalary(t *testing.T) {
	// ctc 1,200,000/yr + 5,000 additional = 105,000/month; at rate 84
	// that's 1250 USD; half involvement = 625.
	got := ComputeInterimSalary(d("1200000"), d("5000"), d("84"), d("0.5"))
	if !got.Equal(d("625")) {
		t.Errorf("got %s, want 625", got)
	}
}

func TestComputeInterimSalaryRounds(t *testing.T) {
	got := ComputeInterimSalary(d("1000000"), d("0"), d("83"), d("1"))
	// 1000000/12/83 = 1004.016064...
	if !got.Equal(d("1004.02")) {
		t.Errorf("got %s, want 1004.02", got)
	}
	if got.Exponent() < -2 {
		t.Errorf("not rounded to cents: %s", got)
	}
}

func TestSumCostByProject(t *testing.T) {
	rows := []*models.InterimCostCalculation{
		{ProjectId: "P1", Salary: d("100"), AdditionalCost: d("10")},
		{ProjectId: "P1", Salary: d("200"), AdditionalCost: d("10")},
		{ProjectId: "P2", Salary: d("50"), AdditionalCost: d("10")},
	}
	sums := SumCostByProject(rows)
	if !sums["P1"].Equal(d("320")) {
		t.Errorf("P1: got %s, want 320", sums["P1"])
	}
	if !sums["P2"].Equal(d("60")) {
		t.Errorf("P2: got %s, want 60", sums["P2"])
	}
}
