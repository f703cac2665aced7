package http

import (
	"errors"
	"fmt"
	"net/http"

	"unistay-backend/internal/domain"
)

type bookingFormView struct {
	Property *domain.Property
	Genders  []domain.Gender
	// Rows is the number of occupant rows to render.
	Rows []int
}

func newBookingFormView(p *domain.Property, submitted int) bookingFormView {
	rows := int(p.MaxTenants) - 1
	if submitted > rows {
		rows = submitted
	}
	if rows > maxOccupantRows {
		rows = maxOccupantRows
	}
	if rows < 0 {
		rows = 0
	}
	v := bookingFormView{Property: p, Genders: []domain.Gender{domain.GenderMale, domain.GenderFemale}}
	for i := 0; i < rows; i++ {
		v.Rows = append(v.Rows, i)
	}
	return v
}

func (h *Handler) handleBookingForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	p, err := h.Bookings.BookingForm(r.Context(), CallerFromContext(r.Context()), id)
	if err != nil {
		h.fail(w, r, err, fmt.Sprintf("/property/%d", id))
		return
	}
	page := h.newPage(w, r, "Book "+p.Title, newBookingFormView(p, 0))
	h.render(w, r, http.StatusOK, "booking_form", page)
}

func (h *Handler) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "Malformed form submission.")
		return
	}
	caller := CallerFromContext(r.Context())
	detail := fmt.Sprintf("/property/%d", id)

	req, f := bookingForm(r)
	if err := f.err(nil); err != nil {
		h.rerenderBooking(w, r, caller, id, len(req.Occupants), err)
		return
	}

	b, err := h.Bookings.CreateBooking(r.Context(), caller, id, req)
	if err != nil {
		var v *domain.ValidationError
		if errors.As(err, &v) && len(v.Fields) > 0 {
			h.rerenderBooking(w, r, caller, id, len(req.Occupants), err)
			return
		}
		h.fail(w, r, err, detail)
		return
	}

	h.setFlash(w, flashSuccess, "Your booking request has been submitted.")
	http.Redirect(w, r, fmt.Sprintf("/booking/%d/notice", b.ID), http.StatusSeeOther)
}

// rerenderBooking shows the booking form again with the submitted values and errors.
func (h *Handler) rerenderBooking(w http.ResponseWriter, r *http.Request, caller domain.Caller, propertyID int32, occupants int, cause error) {
	p, err := h.Bookings.BookingForm(r.Context(), caller, propertyID)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	var v *domain.ValidationError
	errors.As(cause, &v)
	page := h.newPage(w, r, "Book "+p.Title, newBookingFormView(p, occupants)).withErrors(r, v)
	h.render(w, r, http.StatusOK, "booking_form", page)
}

type noticeView struct {
	Booking  *domain.Booking
	Property *domain.Property
}

func (h *Handler) handleMoveInNotice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	b, p, err := h.Bookings.MoveInNotice(r.Context(), CallerFromContext(r.Context()), id)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "move_in_notice", h.newPage(w, r, "Move-in notice", noticeView{Booking: b, Property: p}))
}

// bookingAction runs an owner or tenant status change and returns to dest.
func (h *Handler) bookingAction(w http.ResponseWriter, r *http.Request, dest, done string,
	act func(caller domain.Caller, id int32) (*domain.Booking, error)) {
	id, ok := pathID(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	if _, err := act(CallerFromContext(r.Context()), id); err != nil {
		h.fail(w, r, err, dest)
		return
	}
	h.setFlash(w, flashSuccess, done)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) handleConfirmBooking(w http.ResponseWriter, r *http.Request) {
	h.bookingAction(w, r, "/owner/dashboard", "Booking confirmed.", func(c domain.Caller, id int32) (*domain.Booking, error) {
		return h.Bookings.ConfirmBooking(r.Context(), c, id)
	})
}

func (h *Handler) handleRejectBooking(w http.ResponseWriter, r *http.Request) {
	h.bookingAction(w, r, "/owner/dashboard", "Booking rejected.", func(c domain.Caller, id int32) (*domain.Booking, error) {
		return h.Bookings.RejectBooking(r.Context(), c, id)
	})
}

func (h *Handler) handleCompleteBooking(w http.ResponseWriter, r *http.Request) {
	h.bookingAction(w, r, "/owner/dashboard", "Booking marked as completed.", func(c domain.Caller, id int32) (*domain.Booking, error) {
		return h.Bookings.CompleteBooking(r.Context(), c, id)
	})
}

func (h *Handler) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	h.bookingAction(w, r, "/tenant/dashboard", "Booking cancelled.", func(c domain.Caller, id int32) (*domain.Booking, error) {
		return h.Bookings.CancelBooking(r.Context(), c, id)
	})
}
