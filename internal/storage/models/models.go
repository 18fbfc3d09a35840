package models

import "time"

type QueryRecord struct {
	ID         string
	SessionID  string
	QueryText  string
	Response   string
	RiskLevel  string
	RiskScore  float64
	AlertLevel string
	Confidence float64
	LatencyMS  int
	CreatedAt  time.Time
}
