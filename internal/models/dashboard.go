package models

// DashboardSummary aggregates studio activity over a date range.
type DashboardSummary struct {
	From                     string `json:"from"`
	To                       string `json:"to"`
	RevenueCentsTotal        int64  `json:"revenue_cents_total"`
	PaymentsCount            int    `json:"payments_count"`
	AttendanceCheckinsCount  int    `json:"attendance_checkins_count"`
	AttendanceCancelledCount int    `json:"attendance_cancelled_count"`
	ActiveMembersCount       int    `json:"active_members_count"`
	SessionsScheduledCount   int    `json:"sessions_scheduled_count"`
	SessionsCancelledCount   int    `json:"sessions_cancelled_count"`
}
