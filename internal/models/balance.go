package models

// Balance is one participant's position across all expenses of an event,
// in minor units.
type Balance struct {
	Participant Participant

	// Paid is the total this participant paid out.
	Paid int64

	// ShouldPay is the total of this participant's shares.
	ShouldPay int64

	// Net is Paid - ShouldPay. Positive means the participant is owed money.
	Net int64
}

// Settlement is one suggested transfer that reduces outstanding balances.
type Settlement struct {
	// From is the debtor (negative net balance).
	From Participant

	// To is the creditor (positive net balance).
	To Participant

	// Amount is a positive number of minor units.
	Amount int64
}
