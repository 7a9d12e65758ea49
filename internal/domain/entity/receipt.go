package entity

import "github.com/shopspring/decimal"

// ReceiptHeader is the shop identity printed at the top of a receipt
type ReceiptHeader struct {
	ShopName string  `json:"shop_name"`
	ShopLogo *string `json:"shop_logo,omitempty"`
	Cashier  string  `json:"cashier,omitempty"`
}

// ReceiptItem is a single printed line
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Receipt is composed from a sale at print time and never stored.
type Receipt struct {
	Header       ReceiptHeader   `json:"header"`
	SaleID       string          `json:"sale_id"`
	Number       string          `json:"number"`
	Date         string          `json:"date"`
	Customer     string          `json:"customer,omitempty"`
	Items        []ReceiptItem   `json:"items"`
	Total        decimal.Decimal `json:"total"`
	CashReceived decimal.Decimal `json:"cash_received"`
	Change       decimal.Decimal `json:"change"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	Signature    string          `json:"signature,omitempty"`
	Description  string          `json:"description,omitempty"`
}
