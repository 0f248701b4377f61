package models

// TimeSlot is a fixed start-end interval sized to the selected duration.
// The formatted label uniquely identifies a slot within one generated list.
type TimeSlot struct {
	StartLabel string `json:"start_label"`
	EndLabel   string `json:"end_label"`
}

// Label returns the canonical "start - end" identifier.
func (s TimeSlot) Label() string {
	return s.StartLabel + " - " + s.EndLabel
}
