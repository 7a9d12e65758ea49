// Package report derives shop figures from loaded products, sales,
// customers and losses. Nothing here touches storage.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// InventorySummary values the stock on hand
type InventorySummary struct {
	ProductCount int             `json:"product_count"`
	TotalItems   int             `json:"total_items"`
	BuyingValue  decimal.Decimal `json:"buying_value"`
	SellingValue decimal.Decimal `json:"selling_value"`
}

// SalesSummary covers the sales inside a window
type SalesSummary struct {
	Count     int             `json:"count"`
	ItemsSold int             `json:"items_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
	Cost      decimal.Decimal `json:"cost"`
	Profit    decimal.Decimal `json:"profit"`
	Margin    decimal.Decimal `json:"margin"`
	Loans     decimal.Decimal `json:"loans"`
}

// TopSeller is a product ranked by pieces sold
type TopSeller struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// CustomerSummary describes outstanding store credit
type CustomerSummary struct {
	Count            int             `json:"count"`
	WithLoans        int             `json:"with_loans"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	AverageLoan      decimal.Decimal `json:"average_loan"`
	LoyaltyPoints    int             `json:"loyalty_points"`
}

// ReasonTotal is the loss value recorded under one reason
type ReasonTotal struct {
	Reason   string          `json:"reason"`
	Count    int             `json:"count"`
	Quantity int             `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

// LossSummary totals written-off stock
type LossSummary struct {
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
	ByReason []ReasonTotal   `json:"by_reason"`
}

// Report is everything the reports screen shows for one period
type Report struct {
	Period      enum.ReportPeriod `json:"period"`
	From        time.Time         `json:"from"`
	To          time.Time         `json:"to"`
	GeneratedAt time.Time         `json:"generated_at"`
	Inventory   InventorySummary  `json:"inventory"`
	LowStock    []entity.Product  `json:"low_stock"`
	Sales       SalesSummary      `json:"sales"`
	TopSellers  []TopSeller       `json:"top_sellers"`
	Customers   CustomerSummary   `json:"customers"`
	Losses      LossSummary       `json:"losses"`
}

// Input is the data a report is built from
type Input struct {
	Products  []entity.Product
	Sales     []entity.Sale
	Customers []entity.Customer
	Losses    []entity.Loss
}

// DefaultTopSellers is how many products Build ranks
const DefaultTopSellers = 5

// Build assembles the report for period as seen at now
func Build(in Input, period enum.ReportPeriod, now time.Time) Report {
	from, to := Window(period, now)

	var losses []entity.Loss
	for _, l := range in.Losses {
		if inWindow(l.CreatedAt, from, to) {
			losses = append(losses, l)
		}
	}

	return Report{
		Period:      period,
		From:        from,
		To:          to,
		GeneratedAt: now,
		Inventory:   Inventory(in.Products),
		LowStock:    LowStock(in.Products),
		Sales:       Summarize(in.Sales, in.Products, from, to),
		TopSellers:  TopSellers(salesIn(in.Sales, from, to), in.Products, DefaultTopSellers),
		Customers:   Customers(in.Customers),
		Losses:      Losses(losses),
	}
}

// Window returns the [from, to] range covered by period. Today starts at
// midnight, week at midnight six days ago and month on the first.
func Window(period enum.ReportPeriod, now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	loc := now.Location()
	switch period {
	case enum.ReportPeriodWeek:
		return time.Date(y, m, d-6, 0, 0, 0, 0, loc), now
	case enum.ReportPeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), now
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc), now
	}
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func salesIn(sales []entity.Sale, from, to time.Time) []entity.Sale {
	out := make([]entity.Sale, 0, len(sales))
	for _, s := range sales {
		if inWindow(s.CreatedAt, from, to) {
			out = append(out, s)
		}
	}
	return out
}

// Inventory values stock at both buying and selling prices
func Inventory(products []entity.Product) InventorySummary {
	sum := InventorySummary{
		ProductCount: len(products),
		BuyingValue:  decimal.Zero,
		SellingValue: decimal.Zero,
	}
	for i := range products {
		p := &products[i]
		sum.TotalItems += p.Pieces
		sum.BuyingValue = sum.BuyingValue.Add(p.StockCost())
		sum.SellingValue = sum.SellingValue.Add(p.StockValue())
	}
	return sum
}

// LowStock returns products at or below their alert threshold
func LowStock(products []entity.Product) []entity.Product {
	out := make([]entity.Product, 0)
	for i := range products {
		if products[i].IsLowStock() {
			out = append(out, products[i])
		}
	}
	return out
}

// Summarize totals the sales created inside [from, to]. Cost joins each
// item's quantity with the product's current buying price; items whose
// product was deleted count no cost.
func Summarize(sales []entity.Sale, products []entity.Product, from, to time.Time) SalesSummary {
	buying := make(map[uuid.UUID]decimal.Decimal, len(products))
	for _, p := range products {
		buying[p.ID] = p.BuyingPrice
	}

	sum := SalesSummary{
		Revenue: decimal.Zero,
		Cost:    decimal.Zero,
		Loans:   decimal.Zero,
	}
	for _, s := range sales {
		if !inWindow(s.CreatedAt, from, to) {
			continue
		}
		sum.Count++
		sum.Revenue = sum.Revenue.Add(s.Total)
		sum.Loans = sum.Loans.Add(s.LoanAmount)
		for _, item := range s.Items {
			sum.ItemsSold += item.Quantity
			if price, ok := buying[item.ProductID]; ok {
				sum.Cost = sum.Cost.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			}
		}
	}

	sum.Profit = sum.Revenue.Sub(sum.Cost)
	sum.Margin = decimal.Zero
	if sum.Revenue.IsPositive() {
		sum.Margin = sum.Profit.Div(sum.Revenue).Mul(hundred).Round(2)
	}
	return sum
}

// TopSellers ranks products by pieces sold, then by revenue
func TopSellers(sales []entity.Sale, products []entity.Product, limit int) []TopSeller {
	names := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	byID := make(map[uuid.UUID]*TopSeller)
	for _, s := range sales {
		for _, item := range s.Items {
			ts, ok := byID[item.ProductID]
			if !ok {
				name := names[item.ProductID]
				if name == "" && item.Product != nil {
					name = item.Product.Name
				}
				ts = &TopSeller{ProductID: item.ProductID, Name: name, Revenue: decimal.Zero}
				byID[item.ProductID] = ts
			}
			ts.Quantity += item.Quantity
			ts.Revenue = ts.Revenue.Add(item.Subtotal())
		}
	}

	out := make([]TopSeller, 0, len(byID))
	for _, ts := range byID {
		out = append(out, *ts)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Customers summarizes loans and loyalty across all customers
func Customers(customers []entity.Customer) CustomerSummary {
	sum := CustomerSummary{
		Count:            len(customers),
		TotalOutstanding: decimal.Zero,
		AverageLoan:      decimal.Zero,
	}
	for i := range customers {
		c := &customers[i]
		sum.LoyaltyPoints += c.LoyaltyPoints
		if c.HasLoan() {
			sum.WithLoans++
			sum.TotalOutstanding = sum.TotalOutstanding.Add(c.LoanBalance)
		}
	}
	if sum.WithLoans > 0 {
		sum.AverageLoan = sum.TotalOutstanding.Div(decimal.NewFromInt(int64(sum.WithLoans))).Round(2)
	}
	return sum
}

// Losses totals loss value overall and per reason, largest first
func Losses(losses []entity.Loss) LossSummary {
	sum := LossSummary{Total: decimal.Zero, ByReason: []ReasonTotal{}}
	byReason := make(map[string]*ReasonTotal)
	for _, l := range losses {
		sum.Count++
		sum.Total = sum.Total.Add(l.LossValue)
		rt, ok := byReason[l.Reason]
		if !ok {
			rt = &ReasonTotal{Reason: l.Reason, Value: decimal.Zero}
			byReason[l.Reason] = rt
		}
		rt.Count++
		rt.Quantity += l.Quantity
		rt.Value = rt.Value.Add(l.LossValue)
	}
	for _, rt := range byReason {
		sum.ByReason = append(sum.ByReason, *rt)
	}
	sort.Slice(sum.ByReason, func(i, j int) bool {
		if !sum.ByReason[i].Value.Equal(sum.ByReason[j].Value) {
			return sum.ByReason[i].Value.GreaterThan(sum.ByReason[j].Value)
		}
		return sum.ByReason[i].Reason < sum.ByReason[j].Reason
	})
	return sum
}
