package model

// Record is a single advertising observation. Values are keyed by schema
// field name; an absent key means the value was missing in the input.
// Records are never mutated after ingestion.
type Record struct {
	Labels  map[string]string  `json:"labels"`
	Metrics map[string]float64 `json:"metrics"`
}

// Label returns the categorical value for name, if present.
func (r Record) Label(name string) (string, bool) {
	v, ok := r.Labels[name]
	return v, ok
}

// Metric returns the numeric value for name, if present.
func (r Record) Metric(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	return v, ok
}
