package domain

import (
	"strings"
	"time"
)

type MaintenanceStatus string

const (
	MaintenanceStatusPending    MaintenanceStatus = "pending"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusDone       MaintenanceStatus = "done"
	MaintenanceStatusRejected   MaintenanceStatus = "rejected"
)

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenanceStatusPending, MaintenanceStatusInProgress, MaintenanceStatusDone, MaintenanceStatusRejected:
		return true
	}
	return false
}

// Resolved is true for terminal statuses that carry a resolved date.
func (s MaintenanceStatus) Resolved() bool {
	return s == MaintenanceStatusDone || s == MaintenanceStatusRejected
}

type MaintenancePriority string

const (
	PriorityLow    MaintenancePriority = "low"
	PriorityMedium MaintenancePriority = "medium"
	PriorityHigh   MaintenancePriority = "high"
	PriorityUrgent MaintenancePriority = "urgent"
)

func (p MaintenancePriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type MaintenanceRequest struct {
	ID               int32               `json:"id"`
	PropertyID       int32               `json:"property_id"`
	PropertyTitle    string              `json:"property_title,omitempty"`
	SubmittedBy      int32               `json:"submitted_by"`
	SubmitterName    string              `json:"submitter_name,omitempty"`
	IssueTitle       string              `json:"issue_title"`
	IssueDescription string              `json:"issue_description"`
	SubmittedDate    time.Time           `json:"submitted_date"`
	Status           MaintenanceStatus   `json:"status"`
	Priority         MaintenancePriority `json:"priority"`
	ResolvedDate     *time.Time          `json:"resolved_date,omitempty"`
	ResolutionNotes  string              `json:"resolution_notes"`
}

type MaintenanceInput struct {
	IssueTitle       string
	IssueDescription string
	Priority         MaintenancePriority
}

func (in *MaintenanceInput) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(in.IssueTitle) == "" {
		v.Add("issue_title", "this field is required")
	}
	if strings.TrimSpace(in.IssueDescription) == "" {
		v.Add("issue_description", "this field is required")
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !in.Priority.Valid() {
		v.Add("priority", "select a valid priority")
	}
	return v.OrNil()
}

// SetStatus updates the status and keeps resolved_date consistent with it.
func (r *MaintenanceRequest) SetStatus(s MaintenanceStatus, now time.Time) {
	r.Status = s
	if s.Resolved() {
		if r.ResolvedDate == nil {
			t := now
			r.ResolvedDate = &t
		}
		return
	}
	r.ResolvedDate = nil
}
