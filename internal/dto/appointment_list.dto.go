package dto

import "time"

type AppointmentListDTO struct {
	ID           uint      `json:"id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	DurationMin  int       `json:"duration_min"`
	Status       string    `json:"status"`
	ClientName   string    `json:"client_name"`
	ServiceName  string    `json:"service_name"`
	EmployeeName string    `json:"employee_name"`
}

type AppointmentDayStatsDTO struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
}

type DailyPointsStatsDTO struct {
	PointsEarned      int   `json:"points_earned"`
	PointsRedeemed    int   `json:"points_redeemed"`
	TransactionsCount int64 `json:"transactions_count"`
}
