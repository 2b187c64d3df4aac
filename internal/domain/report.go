package domain

// DashboardStats backs the admin landing page counters.
type DashboardStats struct {
	TotalItems         int32 `json:"total_items"`
	AvailableItems     int32 `json:"available_items"`
	TotalBorrowers     int32 `json:"total_borrowers"`
	OpenBorrows        int32 `json:"open_borrows"`
	PendingReturns     int32 `json:"pending_returns"`
	BorrowedToday      int32 `json:"borrowed_today"`
	BorrowedThisWeek   int32 `json:"borrowed_this_week"`
	BorrowedThisMonth  int32 `json:"borrowed_this_month"`
}
