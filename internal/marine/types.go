// Package marine holds the domain model shared by the ingestion,
// risk-analysis and alerting stages.
package marine

import (
	"fmt"
	"math"
	"time"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskSevere   RiskLevel = "SEVERE"
	RiskUnknown  RiskLevel = "UNKNOWN"
)

// RiskLevelFromScore maps a 0-100 risk score to its level bucket.
func RiskLevelFromScore(score float64) RiskLevel {
	switch {
	case score < 25:
		return RiskLow
	case score < 50:
		return RiskModerate
	case score < 75:
		return RiskHigh
	default:
		return RiskSevere
	}
}

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskModerate, RiskHigh, RiskSevere, RiskUnknown:
		return true
	}
	return false
}

type AlertLevel string

const (
	AlertInformational AlertLevel = "INFORMATIONAL"
	AlertAdvisory      AlertLevel = "ADVISORY"
	AlertWarning       AlertLevel = "WARNING"
	AlertUrgent        AlertLevel = "URGENT"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
}

func (l Location) String() string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("(%.4f, %.4f)", l.Latitude, l.Longitude)
}

func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 &&
		l.Longitude >= -180 && l.Longitude <= 180
}

// WeatherObservation is the marine weather snapshot from Open-Meteo.
type WeatherObservation struct {
	WaveHeightM      float64   `json:"wave_height"`
	WaveDirectionDeg float64   `json:"wave_direction"`
	WavePeriodS      float64   `json:"wave_period"`
	WindSpeedKn      float64   `json:"wind_speed"`
	WindDirectionDeg float64   `json:"wind_direction"`
	VisibilityNM     float64   `json:"visibility"`
	Timestamp        time.Time `json:"timestamp"`
}

// OceanObservation is the ocean physics snapshot from Copernicus.
type OceanObservation struct {
	SeaSurfaceHeightM float64   `json:"sea_surface_height"`
	CurrentU          float64   `json:"current_velocity_u"`
	CurrentV          float64   `json:"current_velocity_v"`
	SeaSurfaceTempC   float64   `json:"sea_surface_temperature"`
	SalinityPSU       float64   `json:"salinity"`
	Timestamp         time.Time `json:"timestamp"`
}

// CurrentSpeedKmh derives the current magnitude in km/h from the
// u/v components in m/s.
func (o OceanObservation) CurrentSpeedKmh() float64 {
	return math.Sqrt(o.CurrentU*o.CurrentU+o.CurrentV*o.CurrentV) * 3.6
}

// Measurements is the normalized weather + ocean reading set for one
// location. Either observation may be nil when its source failed;
// absence means "no data", not zero values.
type Measurements struct {
	Location  Location            `json:"location"`
	Weather   *WeatherObservation `json:"weather_data,omitempty"`
	Ocean     *OceanObservation   `json:"ocean_data,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

type RiskAssessment struct {
	Level           RiskLevel `json:"risk_level"`
	Score           float64   `json:"risk_score"`
	Hazards         []string  `json:"hazards"`
	Recommendations []string  `json:"recommendations"`
	Reasoning       string    `json:"reasoning"`
	Confidence      float64   `json:"confidence_score"`
	Timestamp       time.Time `json:"timestamp"`
}

type Alert struct {
	Level         AlertLevel             `json:"alert_level"`
	RiskScore     float64                `json:"risk_score"`
	Text          string                 `json:"alert_text"`
	Metrics       map[string]interface{} `json:"metrics,omitempty"`
	ValidityHours int                    `json:"validity_period"`
	Timestamp     time.Time              `json:"timestamp"`
}
