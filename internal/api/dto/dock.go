package dto

type DockSummaryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CurrentLoad int    `json:"current_load"`
	TotalLoad   int    `json:"total_load"`
}

type DashboardResponse struct {
	DockData []DockSummaryResponse `json:"dock_data"`
}
