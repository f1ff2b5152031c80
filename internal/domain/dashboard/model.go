package dashboard

// Stats is the aggregate snapshot behind the dashboard cards. MonthlyRevenue
// sums invoice totals created in the current calendar month, regardless of
// payment status.
type Stats struct {
	TotalPatients  int    `json:"totalPatients"`
	TotalInvoices  int    `json:"totalInvoices"`
	MonthlyRevenue string `json:"monthlyRevenue"`
	PendingBills   int    `json:"pendingBills"`
}
