package model

import "time"

// Composite is one weighted aggregate: a 0-100 score, the fraction of total
// weight that was backed by available data, the raw weight sums, and the per
// metric 0-1 inputs. Raw holds every weighted metric; excluded metrics are
// recorded as null for transparency.
type Composite struct {
	Score       float64             `json:"score"`
	Coverage    float64             `json:"coverage"`
	WeightUsed  float64             `json:"weight_used"`
	WeightTotal float64             `json:"weight_total"`
	Raw         map[string]*float64 `json:"raw"`
}

// Scores holds the two composite indices computed from a finished document.
type Scores struct {
	Onsite Composite `json:"onsite"`
	Local  Composite `json:"local"`
}

// Run statuses persisted by the store.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one persisted audit run: the job identity plus the three output
// documents.
type Run struct {
	ID        string           `json:"id"`
	Client    string           `json:"client"`
	Domain    string           `json:"domain"`
	RunDate   string           `json:"run_date"`
	Status    RunStatus        `json:"status"`
	Audit     *NormalizedAudit `json:"audit,omitempty"`
	Scores    *Scores          `json:"scores,omitempty"`
	Manifest  Manifest         `json:"manifest,omitempty"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
