package credit

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stage is a state of the underwriting state machine.
type Stage string

const (
	StageScoring       Stage = "scoring"
	StageExposureCheck Stage = "exposure_check"
	StageRateCheck     Stage = "rate_check"
	StageApproved      Stage = "approved"
	StageRejected      Stage = "rejected"
)

// Reason explains a rejection. Approved decisions carry ReasonNone.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonLowCreditScore Reason = "low credit score"
	ReasonEMIBurden      Reason = "EMI burden exceeds 50% of income"
	ReasonCreditScore    Reason = "credit score"
)

// RejectScoreCeiling is the highest score that is always rejected.
const RejectScoreCeiling = 10

var maxEMIShare = decimal.NewFromFloat(0.5)

// Decision is the outcome of one underwriting run. It is never persisted here.
type Decision struct {
	CustomerID    uint64
	Score         int
	Approved      bool
	RequestedRate decimal.Decimal
	CorrectedRate decimal.Decimal
	Tenure        int
	Installment   decimal.Decimal
	Reason        Reason
	// DecidedAt is the stage whose check produced the outcome.
	DecidedAt Stage
	Final     Stage
}

// RateCorrected reports whether the rate was raised to the band floor.
func (d Decision) RateCorrected() bool {
	return d.Approved && !d.CorrectedRate.Equal(d.RequestedRate)
}

// RateFloor is the minimum acceptable annual rate for a score band. ok is false
// when no rate qualifies.
//
//	score > 50        -> 0
//	30 < score <= 50  -> 12
//	10 < score <= 30  -> 16
//	score <= 10       -> none
func RateFloor(score int) (floor decimal.Decimal, ok bool) {
	switch {
	case score > 50:
		return decimal.Zero, true
	case score > 30:
		return decimal.NewFromInt(12), true
	case score > RejectScoreCeiling:
		return decimal.NewFromInt(16), true
	default:
		return decimal.Zero, false
	}
}

// CurrentEMIs sums the monthly repayment of loans still active on today.
func CurrentEMIs(history []LoanRecord, today time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range history {
		if l.Active(today) {
			sum = sum.Add(l.MonthlyRepayment)
		}
	}
	return sum
}

// Underwrite decides a request for an already scored customer. Checks run in
// order and the first outcome wins: low score, EMI burden, no qualifying rate,
// rate at or above the floor, rate corrected up to the floor.
//
// The installment recomputed after a rate correction is not checked against the
// EMI cap again.
func Underwrite(score int, c Customer, history []LoanRecord, req Request, today time.Time) (Decision, error) {
	installment, err := Installment(req.Amount, req.InterestRate, req.Tenure)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{
		CustomerID:    c.ID,
		Score:         score,
		RequestedRate: req.InterestRate,
		CorrectedRate: req.InterestRate,
		Tenure:        req.Tenure,
		Installment:   installment,
	}

	if score <= RejectScoreCeiling {
		return d.reject(StageScoring, ReasonLowCreditScore), nil
	}

	burden := CurrentEMIs(history, today).Add(installment)
	if burden.GreaterThan(c.MonthlySalary.Mul(maxEMIShare)) {
		return d.reject(StageExposureCheck, ReasonEMIBurden), nil
	}

	floor, ok := RateFloor(score)
	if !ok {
		return d.reject(StageRateCheck, ReasonCreditScore), nil
	}
	if req.InterestRate.GreaterThanOrEqual(floor) {
		return d.approve(), nil
	}

	corrected, err := Installment(req.Amount, floor, req.Tenure)
	if err != nil {
		return Decision{}, err
	}
	d.CorrectedRate = floor
	d.Installment = corrected
	return d.approve(), nil
}

// EvaluateLoan scores the customer and underwrites the request in one step.
func EvaluateLoan(c Customer, history []LoanRecord, req Request, today time.Time) (Decision, error) {
	return Underwrite(ScoreCustomer(c, history, today), c, history, req, today)
}

func (d Decision) reject(at Stage, reason Reason) Decision {
	d.Approved = false
	d.Reason = reason
	d.DecidedAt = at
	d.Final = StageRejected
	return d
}

func (d Decision) approve() Decision {
	d.Approved = true
	d.Reason = ReasonNone
	d.DecidedAt = StageRateCheck
	d.Final = StageApproved
	return d
}
