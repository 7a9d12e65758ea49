package service

import (
	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/pkg/realtime"
)

// Realtime table names
const (
	TableProducts    = "products"
	TableCustomers   = "customers"
	TableLoanHistory = "customer_loan_history"
	TableSales       = "sales"
	TableLosses      = "losses"
)

// ChangePublisher announces committed changes to realtime subscribers.
// *realtime.Hub satisfies it.
type ChangePublisher interface {
	Inserted(table string, record realtime.Identifiable)
	Updated(table string, record realtime.Identifiable)
	Deleted(table string, id uuid.UUID)
}

type noopPublisher struct{}

func (noopPublisher) Inserted(string, realtime.Identifiable) {}
func (noopPublisher) Updated(string, realtime.Identifiable)  {}
func (noopPublisher) Deleted(string, uuid.UUID)              {}

func publisherOrNoop(p ChangePublisher) ChangePublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
