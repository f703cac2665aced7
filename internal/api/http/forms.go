package http

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"unistay-backend/internal/domain"
)

const dateLayout = "2006-01-02"

// maxOccupantRows is the number of additional occupants beside the primary tenant.
const maxOccupantRows = domain.MaxTenantsPerProperty - 1

// pathID reads a numeric path variable; the route pattern guarantees digits.
func pathID(r *http.Request, name string) (int32, bool) {
	n, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil || n <= 0 {
		return 0, false
	}
	return int32(n), true
}

// formReader collects conversion errors while reading form values.
type formReader struct {
	r *http.Request
	v *domain.ValidationError
}

func newFormReader(r *http.Request) *formReader {
	return &formReader{r: r, v: &domain.ValidationError{}}
}

func (f *formReader) str(name string) string {
	return strings.TrimSpace(f.r.PostFormValue(name))
}

func (f *formReader) int32(name string) int32 {
	raw := f.str(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		f.v.Add(name, "enter a whole number")
		return 0
	}
	return int32(n)
}

func (f *formReader) optInt32(name string) *int32 {
	if f.str(name) == "" {
		return nil
	}
	n := f.int32(name)
	return &n
}

func (f *formReader) cents(name string) int64 {
	raw := f.str(name)
	if raw == "" {
		f.v.Add(name, "this field is required")
		return 0
	}
	c, err := parseCents(raw)
	if err != nil {
		f.v.Add(name, "enter a valid amount")
	}
	return c
}

func (f *formReader) date(name string) time.Time {
	raw := f.str(name)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		f.v.Add(name, "enter a valid date")
	}
	return t
}

func (f *formReader) ids(name string) []int32 {
	var out []int32
	for _, raw := range f.r.PostForm[name] {
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
		if err != nil {
			f.v.Add(name, fmt.Sprintf("%q is not a valid choice", raw))
			continue
		}
		out = append(out, int32(n))
	}
	return out
}

// err returns the collected conversion errors merged with a later validation result.
func (f *formReader) err(validation error) error {
	var v *domain.ValidationError
	if errors.As(validation, &v) {
		for k, msg := range v.Fields {
			f.v.Add(k, msg)
		}
		if v.Message != "" && f.v.Message == "" {
			f.v.Message = v.Message
		}
	} else if validation != nil {
		return validation
	}
	return f.v.OrNil()
}

// parseCents reads "1,200.50" or "850" into an amount in cents.
func parseCents(raw string) (int64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	whole, frac, hasFrac := strings.Cut(raw, ".")
	if whole == "" && !hasFrac {
		return 0, fmt.Errorf("empty amount")
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("too many decimal places")
	}
	var w int64
	if whole != "" {
		n, err := strconv.ParseInt(whole, 10, 64)
		if err != nil || n < 0 || n > math.MaxInt64/100 {
			return 0, fmt.Errorf("invalid amount %q", raw)
		}
		w = n
	}
	var c int64
	if frac != "" {
		n, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid amount %q", raw)
		}
		if len(frac) == 1 {
			n *= 10
		}
		c = n
	}
	return w*100 + c, nil
}

func signupForm(r *http.Request) domain.SignupInput {
	f := newFormReader(r)
	return domain.SignupInput{
		Username:        f.str("username"),
		Email:           f.str("email"),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
		FullName:        f.str("full_name"),
		PhoneNumber:     f.str("phone_number"),
		Course:          f.str("course"),
		Gender:          domain.Gender(f.str("gender")),
	}
}

// bookingForm reads the booking form. Additional occupants use the
// occupants-N-field naming with occupants-TOTAL_FORMS giving the row count;
// blank rows and rows marked DELETE are skipped. A row count above
// maxOccupantRows is a field error.
func bookingForm(r *http.Request) (domain.BookingRequest, *formReader) {
	f := newFormReader(r)
	req := domain.BookingRequest{
		StartDate:              f.date("start_date"),
		FullName:               f.str("full_name"),
		Gender:                 domain.Gender(f.str("gender")),
		StudentIDNumber:        f.str("student_id_number"),
		Email:                  f.str("email"),
		CurrentAddress:         f.str("current_address"),
		UniversityName:         f.str("university_name"),
		ExpectedDurationOfStay: f.str("expected_duration_of_stay"),
	}

	total := f.int32("occupants-TOTAL_FORMS")
	if total > maxOccupantRows {
		f.v.Add("occupants", fmt.Sprintf("at most %d additional occupants are allowed", maxOccupantRows))
		return req, f
	}
	for i := int32(0); i < total; i++ {
		prefix := fmt.Sprintf("occupants-%d-", i)
		if f.str(prefix+"DELETE") != "" {
			continue
		}
		o := domain.AdditionalOccupant{
			FullName:        f.str(prefix + "full_name"),
			StudentIDNumber: f.str(prefix + "student_id_number"),
			Email:           f.str(prefix + "email"),
			PhoneNumber:     f.str(prefix + "phone_number"),
			Gender:          domain.Gender(f.str(prefix + "gender")),
		}
		if o.FullName == "" && o.Email == "" && o.PhoneNumber == "" && o.StudentIDNumber == "" {
			continue
		}
		req.Occupants = append(req.Occupants, o)
	}
	return req, f
}

func propertyForm(r *http.Request) (domain.PropertyInput, *formReader) {
	f := newFormReader(r)
	in := domain.PropertyInput{
		HouseType:        domain.HouseType(f.str("house_type")),
		Title:            f.str("title"),
		RentCents:        f.cents("rent"),
		UniversityNearby: f.str("university_nearby"),
		Address:          f.str("address"),
		Description:      f.str("description"),
		Bedrooms:         f.int32("bedrooms"),
		TotalRoom:        f.int32("total_room"),
		TotalToilets:     f.int32("total_toilets"),
		SquareFootage:    f.optInt32("square_footage"),
		MaxTenants:       f.int32("max_tenants"),
		GenderPreferred:  domain.Gender(f.str("gender_preferred")),
		TotalSpots:       f.int32("total_spots"),
		AmenityIDs:       f.ids("amenities"),
	}
	return in, f
}

func paymentForm(r *http.Request) (domain.PaymentInput, *formReader) {
	f := newFormReader(r)
	in := domain.PaymentInput{
		FullName:      f.str("full_name"),
		Email:         f.str("email"),
		PhoneNumber:   f.str("phone_number"),
		AmountCents:   f.cents("amount"),
		PaymentMethod: f.str("payment_method"),
		BookingID:     f.optInt32("booking"),
		ReceiverID:    f.optInt32("receiver_of_payment"),
	}
	return in, f
}

func maintenanceForm(r *http.Request) domain.MaintenanceInput {
	f := newFormReader(r)
	return domain.MaintenanceInput{
		IssueTitle:       f.str("issue_title"),
		IssueDescription: f.str("issue_description"),
		Priority:         domain.MaintenancePriority(f.str("priority")),
	}
}

// imageUpload reads the optional main_image file. Oversized files are rejected
// by the service's image rules.
func (h *Handler) imageUpload(r *http.Request) (*domain.Upload, error) {
	file, header, err := r.FormFile("main_image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		return nil, err
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &domain.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Data:        data,
	}, nil
}
