package enum

import (
	"encoding/json"
	"fmt"
)

// LoanTransactionType tells whether a ledger row raised or lowered a balance
type LoanTransactionType string

const (
	LoanTransactionLoan    LoanTransactionType = "loan"
	LoanTransactionPayment LoanTransactionType = "payment"
)

func (t LoanTransactionType) String() string {
	return string(t)
}

// Valid reports whether t is a known transaction type
func (t LoanTransactionType) Valid() bool {
	return t == LoanTransactionLoan || t == LoanTransactionPayment
}

func (t *LoanTransactionType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v := LoanTransactionType(str)
	if !v.Valid() {
		return fmt.Errorf("invalid loan transaction type %q", str)
	}
	*t = v
	return nil
}
