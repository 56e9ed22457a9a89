package models

// CommentStats is the comment rollup shown on the admin dashboard.
type CommentStats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Flagged int `json:"flagged"`
	Today   int `json:"today"`
}

// UserStats is the account rollup computed alongside comment stats.
type UserStats struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Suspended   int `json:"suspended"`
	NewThisWeek int `json:"newThisWeek"`
}

// DashboardStats is the full admin dashboard payload.
type DashboardStats struct {
	Users    UserStats    `json:"users"`
	Comments CommentStats `json:"comments"`
}
