package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

var PaymentMethods = []string{"Credit Card", "Bank Transfer", "Online Wallet", "Cash"}

type PaymentRecord struct {
	ID            int32     `json:"id"`
	UserID        *int32    `json:"user_id,omitempty"`
	BookingID     *int32    `json:"booking_id,omitempty"`
	BookingTitle  string    `json:"booking_title,omitempty"`
	ReceiverID    *int32    `json:"receiver_of_payment_id,omitempty"`
	ReceiverName  string    `json:"receiver_of_payment_name,omitempty"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	PhoneNumber   string    `json:"phone_number"`
	AmountCents   int64     `json:"amount_cents"`
	PaymentMethod string    `json:"payment_method"`
	PaymentDate   time.Time `json:"payment_date"`
	TransactionID string    `json:"transaction_id"`
}

// NewTransactionID builds <yyyymmddHHMMSSffffff>_<record id>_<user id or GUEST>.
func NewTransactionID(at time.Time, recordID int32, userID *int32) string {
	user := "GUEST"
	if userID != nil {
		user = fmt.Sprintf("%d", *userID)
	}
	ts := at.Format("20060102150405") + fmt.Sprintf("%06d", at.Nanosecond()/1000)
	return fmt.Sprintf("%s_%d_%s", ts, recordID, user)
}

type PaymentInput struct {
	FullName      string
	Email         string
	PhoneNumber   string
	AmountCents   int64
	PaymentMethod string
	BookingID     *int32
	ReceiverID    *int32
}

func (in PaymentInput) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(in.FullName) == "" {
		v.Add("full_name", "this field is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		v.Add("email", "enter a valid email address")
	}
	if in.AmountCents <= 0 {
		v.Add("amount", "amount must be greater than zero")
	}
	if in.PaymentMethod != "" && !validPaymentMethod(in.PaymentMethod) {
		v.Add("payment_method", "select a valid payment method")
	}
	return v.OrNil()
}

func validPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// PaymentOptions are the choices offered on the payment form.
type PaymentOptions struct {
	Receivers []User
	Bookings  []Booking
	Methods   []string
	Initial   PaymentInput // Prefilled from the caller's profile
}

// FormatCents renders an amount as "RM 1,200.00".
func FormatCents(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := fmt.Sprintf("%d", cents/100)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	s := fmt.Sprintf("RM %s.%02d", b.String(), cents%100)
	if neg {
		return "-" + s
	}
	return s
}
