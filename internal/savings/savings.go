// Package savings implements educational savings calculators. Results are
// illustrations, not financial advice.
package savings

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidInput = errors.New("savings: invalid input")

// CompoundResult is the outcome of a lump sum growing at a fixed rate.
type CompoundResult struct {
	Principal      float64 `json:"principal"`
	Rate           float64 `json:"rate"`
	Years          int     `json:"years"`
	Frequency      int     `json:"frequency"`
	FinalAmount    float64 `json:"final_amount"`
	InterestEarned float64 `json:"interest_earned"`
	TotalReturn    float64 `json:"total_return_percent"`
}

// CompoundInterest grows principal at an annual rate given in percent,
// compounded frequency times a year. A frequency of 0 means monthly.
func CompoundInterest(principal, rate float64, years, frequency int) (CompoundResult, error) {
	if frequency == 0 {
		frequency = 12
	}
	if principal <= 0 || rate < 0 || years < 0 || frequency < 0 {
		return CompoundResult{}, fmt.Errorf("%w: principal %.2f, rate %.2f, years %d, frequency %d", ErrInvalidInput, principal, rate, years, frequency)
	}
	amount := principal * math.Pow(1+rate/100/float64(frequency), float64(frequency*years))
	interest := amount - principal
	return CompoundResult{
		Principal:      principal,
		Rate:           rate,
		Years:          years,
		Frequency:      frequency,
		FinalAmount:    round2(amount),
		InterestEarned: round2(interest),
		TotalReturn:    round2(interest / principal * 100),
	}, nil
}

// SIPResult is the outcome of a monthly systematic investment plan.
type SIPResult struct {
	MonthlyInvestment float64 `json:"monthly_investment"`
	Rate              float64 `json:"rate"`
	Years             int     `json:"years"`
	TotalInvested     float64 `json:"total_invested"`
	FinalValue        float64 `json:"final_value"`
	Returns           float64 `json:"returns"`
	ReturnPercent     float64 `json:"return_percent"`
}

// SIP computes the future value of monthly contributions made at the start
// of each month at an expected annual rate in percent.
func SIP(monthly, rate float64, years int) (SIPResult, error) {
	if monthly <= 0 || rate < 0 || years <= 0 {
		return SIPResult{}, fmt.Errorf("%w: monthly %.2f, rate %.2f, years %d", ErrInvalidInput, monthly, rate, years)
	}
	months := float64(years * 12)
	r := rate / 12 / 100

	fv := monthly * months
	if r != 0 {
		fv = monthly * ((math.Pow(1+r, months) - 1) / r) * (1 + r)
	}
	invested := monthly * months
	returns := fv - invested
	return SIPResult{
		MonthlyInvestment: monthly,
		Rate:              rate,
		Years:             years,
		TotalInvested:     round2(invested),
		FinalValue:        round2(fv),
		Returns:           round2(returns),
		ReturnPercent:     round2(returns / invested * 100),
	}, nil
}

// GrowthPoint is the value of one principal after Year years under simple
// and yearly compound interest.
type GrowthPoint struct {
	Year     int     `json:"year"`
	Simple   float64 `json:"simple"`
	Compound float64 `json:"compound"`
}

// GrowthSeries returns one point per year from 0 to maxYears inclusive.
func GrowthSeries(principal, rate float64, maxYears int) ([]GrowthPoint, error) {
	if principal <= 0 || rate < 0 || maxYears < 0 {
		return nil, fmt.Errorf("%w: principal %.2f, rate %.2f, years %d", ErrInvalidInput, principal, rate, maxYears)
	}
	points := make([]GrowthPoint, 0, maxYears+1)
	for y := 0; y <= maxYears; y++ {
		points = append(points, GrowthPoint{
			Year:     y,
			Simple:   round2(principal + principal*rate/100*float64(y)),
			Compound: round2(principal * math.Pow(1+rate/100, float64(y))),
		})
	}
	return points, nil
}

// Option is an instrument with an illustrative annual rate in percent.
type Option struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// ReferenceOptions are typical long run rates used for comparisons.
var ReferenceOptions = []Option{
	{Name: "Savings Account", Rate: 3.5},
	{Name: "Fixed Deposit", Rate: 6.5},
	{Name: "PPF", Rate: 7.1},
	{Name: "Mutual Funds", Rate: 12},
	{Name: "Equity (Long-term)", Rate: 15},
}

type Comparison struct {
	Option      string  `json:"option"`
	Rate        float64 `json:"rate"`
	FinalAmount float64 `json:"final_amount"`
	Returns     float64 `json:"returns"`
}

// Compare grows principal for years under each of ReferenceOptions with
// yearly compounding.
func Compare(principal float64, years int) ([]Comparison, error) {
	if principal <= 0 || years < 0 {
		return nil, fmt.Errorf("%w: principal %.2f, years %d", ErrInvalidInput, principal, years)
	}
	out := make([]Comparison, 0, len(ReferenceOptions))
	for _, o := range ReferenceOptions {
		final := principal * math.Pow(1+o.Rate/100, float64(years))
		out = append(out, Comparison{
			Option:      o.Name,
			Rate:        o.Rate,
			FinalAmount: round2(final),
			Returns:     round2(final - principal),
		})
	}
	return out, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
