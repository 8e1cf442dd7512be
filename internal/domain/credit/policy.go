package credit

const (
	ReasonScoreTooLow = "Credit score too low"

	midBandMinRate = 12.0
	lowBandMinRate = 16.0
)

type Decision struct {
	Approved      bool
	CorrectedRate float64
	Reason        string
}

// Decide maps a score and the requested annual rate to an approval decision.
// Lower bands approve only at a floor rate.
func Decide(score int, requestedRate float64) Decision {
	switch {
	case score > 50:
		return Decision{Approved: true, CorrectedRate: requestedRate}
	case score > 30:
		return Decision{Approved: true, CorrectedRate: max(requestedRate, midBandMinRate)}
	case score > 10:
		return Decision{Approved: true, CorrectedRate: max(requestedRate, lowBandMinRate)}
	default:
		return Decision{Approved: false, CorrectedRate: requestedRate, Reason: ReasonScoreTooLow}
	}
}
