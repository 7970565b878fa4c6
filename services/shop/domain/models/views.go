package models

import "github.com/shopspring/decimal"

// UnknownCustomerName is shown for jobs without a (resolvable) customer.
const UnknownCustomerName = "N/A"

// JobView is a Job joined with its customer's name for presentation.
type JobView struct {
	Job
	CustomerName string
}

// InvoiceView is an Invoice joined with its job number and customer name.
type InvoiceView struct {
	Invoice
	JobNumber    string
	CustomerName string
}

// InventoryView is an InventoryItem with its derived low-stock flag.
type InventoryView struct {
	InventoryItem
	LowStock bool
}

// NewInventoryView derives the low-stock flag for item.
func NewInventoryView(item InventoryItem) InventoryView {
	return InventoryView{InventoryItem: item, LowStock: item.IsLowStock()}
}

// DashboardStats aggregates job counts and realized revenue.
type DashboardStats struct {
	TotalJobs      int
	InProgressJobs int
	CompletedJobs  int
	TotalRevenue   decimal.Decimal
}
