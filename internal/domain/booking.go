package domain

import (
	"net/mail"
	"strconv"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

// HoldsCapacity reports whether a booking in this status occupies spots on its property.
func (s BookingStatus) HoldsCapacity() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

func (s BookingStatus) Active() bool { return s.HoldsCapacity() }

func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SpotDelta is the change to a property's booked_spots when a booking of the
// given size moves from one status to another. from is "" for a new booking.
func SpotDelta(from, to BookingStatus, spots int32) int32 {
	var d int32
	if to.HoldsCapacity() {
		d++
	}
	if from.HoldsCapacity() {
		d--
	}
	return d * spots
}

type Booking struct {
	ID                     int32                `json:"id"`
	PropertyID             int32                `json:"property_id"`
	PropertyTitle          string               `json:"property_title,omitempty"`
	OwnerID                int32                `json:"owner_id,omitempty"`
	TenantID               int32                `json:"tenant_id"`
	TenantUsername         string               `json:"tenant_username,omitempty"`
	StartDate              time.Time            `json:"start_date"`
	Status                 BookingStatus        `json:"status"`
	SpotsBooked            int32                `json:"spots_booked"`
	FullName               string               `json:"full_name"`
	Gender                 Gender               `json:"gender"`
	StudentIDNumber        string               `json:"student_id_number"`
	Email                  string               `json:"email"`
	CurrentAddress         string               `json:"current_address"`
	UniversityName         string               `json:"university_name"`
	ExpectedDurationOfStay string               `json:"expected_duration_of_stay"`
	AdditionalOccupants    []AdditionalOccupant `json:"additional_occupants,omitempty"` // Populated when needed
	CreatedAt              time.Time            `json:"created_at"`
	UpdatedAt              time.Time            `json:"updated_at"`
}

type AdditionalOccupant struct {
	ID              int32  `json:"id"`
	BookingID       int32  `json:"booking_id"`
	FullName        string `json:"full_name"`
	StudentIDNumber string `json:"student_id_number"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	Gender          Gender `json:"gender"`
}

// BookingRequest is the booking form as submitted by a student.
type BookingRequest struct {
	StartDate              time.Time
	FullName               string
	Gender                 Gender
	StudentIDNumber        string
	Email                  string
	CurrentAddress         string
	UniversityName         string
	ExpectedDurationOfStay string
	Occupants              []AdditionalOccupant
}

// Spots counts the primary tenant plus every additional occupant.
func (r BookingRequest) Spots() int32 { return int32(1 + len(r.Occupants)) }

// Validate checks the form against the target property. today is the caller's
// current date; a start date before it is rejected.
func (r BookingRequest) Validate(p *Property, today time.Time) error {
	v := &ValidationError{}
	if r.StartDate.IsZero() {
		v.Add("start_date", "this field is required")
	} else if r.StartDate.Before(truncateDay(today)) {
		v.Add("start_date", "start date cannot be in the past")
	}
	if strings.TrimSpace(r.FullName) == "" {
		v.Add("full_name", "this field is required")
	}
	if !r.Gender.Valid() {
		v.Add("gender", "select a valid gender")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		v.Add("email", "enter a valid email address")
	}
	if strings.TrimSpace(r.CurrentAddress) == "" {
		v.Add("current_address", "this field is required")
	}
	if strings.TrimSpace(r.ExpectedDurationOfStay) == "" {
		v.Add("expected_duration_of_stay", "this field is required")
	}

	seen := make(map[string]bool, len(r.Occupants))
	for i, o := range r.Occupants {
		field := "occupant_" + strconv.Itoa(i)
		if strings.TrimSpace(o.FullName) == "" {
			v.Add(field+"_full_name", "this field is required")
		}
		if _, err := mail.ParseAddress(o.Email); err != nil {
			v.Add(field+"_email", "enter a valid email address")
		}
		if o.PhoneNumber == "" {
			v.Add(field+"_phone_number", "this field is required")
		}
		if !o.Gender.Valid() {
			v.Add(field+"_gender", "select a valid gender")
		}
		key := strings.ToLower(o.Email)
		if seen[key] {
			v.Add(field+"_email", "each occupant needs a distinct email address")
		}
		seen[key] = true
	}

	if p != nil && r.Spots() > p.MaxTenants {
		v.Add("occupants", "total occupants exceed the maximum tenants for this property")
	}
	return v.OrNil()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
