package domain

import "time"

// FormField is one submitted field. Password values are redacted before the
// record is built.
type FormField struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
	Valid bool   `json:"validation_status"`
}

// FieldError is a client-side validation failure captured at submit time.
type FieldError struct {
	FieldID string `json:"field_id"`
	Message string `json:"error_message"`
}

// FormSubmission captures one submitted form together with the interaction
// timing needed for fraud scoring. CompletionTime is the submission timestamp
// minus the earliest field focus across the form.
type FormSubmission struct {
	FormID            string             `json:"form_id"`
	FormName          string             `json:"form_name"`
	Fields            []FormField        `json:"form_fields"`
	StartTime         time.Time          `json:"start_time"`
	SubmissionTime    time.Time          `json:"submission_time"`
	CompletionTime    time.Duration      `json:"completion_time"`
	FieldInteractions []FieldInteraction `json:"field_interactions"`
	ValidationErrors  []FieldError       `json:"validation_errors"`
}

// TotalFieldChanges sums change counts across all field interactions.
func (f *FormSubmission) TotalFieldChanges() int {
	total := 0
	for _, fi := range f.FieldInteractions {
		total += fi.ChangeCount
	}
	return total
}
