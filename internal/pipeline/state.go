package pipeline

// State names the stages of the query pipeline. Transitions only move
// forward; FAILED is terminal and reachable from any state.
type State string

const (
	StateStart               State = "START"
	StateLocationResolved    State = "LOCATION_RESOLVED"
	StateDataIngested        State = "DATA_INGESTED"
	StateRiskAssessed        State = "RISK_ASSESSED"
	StateAlertGenerated      State = "ALERT_GENERATED"
	StateResponseSynthesized State = "RESPONSE_SYNTHESIZED"
	StateDone                State = "DONE"
	StateFailed              State = "FAILED"
)
