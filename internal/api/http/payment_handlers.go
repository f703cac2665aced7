package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"unistay-backend/internal/domain"
)

func (h *Handler) handlePaymentForm(w http.ResponseWriter, r *http.Request) {
	opts, err := h.Payments.FormOptions(r.Context(), CallerFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	page := h.newPage(w, r, "Make a payment", opts)
	page.Form.Set("full_name", opts.Initial.FullName)
	page.Form.Set("email", opts.Initial.Email)
	page.Form.Set("phone_number", opts.Initial.PhoneNumber)
	h.render(w, r, http.StatusOK, "payment_form", page)
}

func (h *Handler) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "Malformed form submission.")
		return
	}
	caller := CallerFromContext(r.Context())

	in, f := paymentForm(r)
	var (
		rec *domain.PaymentRecord
		err = f.err(nil)
	)
	if err == nil {
		rec, err = h.Payments.CreatePayment(r.Context(), caller, in)
	}
	if err != nil {
		var v *domain.ValidationError
		if !errors.As(err, &v) {
			h.fail(w, r, err, "/payment")
			return
		}
		opts, oerr := h.Payments.FormOptions(r.Context(), caller)
		if oerr != nil {
			h.fail(w, r, oerr, "/")
			return
		}
		h.render(w, r, http.StatusOK, "payment_form", h.newPage(w, r, "Make a payment", opts).withErrors(r, v))
		return
	}

	h.setFlash(w, flashSuccess, "Payment recorded. Transaction ID: "+rec.TransactionID)
	http.Redirect(w, r, fmt.Sprintf("/receipt/%d", rec.ID), http.StatusSeeOther)
}

func (h *Handler) handleReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	rec, err := h.Payments.GetPayment(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "/payment")
		return
	}
	h.render(w, r, http.StatusOK, "receipt", h.newPage(w, r, "Payment receipt", rec))
}

// handleReceiptPDF falls back to the HTML receipt when rendering fails.
func (h *Handler) handleReceiptPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	pdf, err := h.Payments.ReceiptPDF(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, fmt.Sprintf("/receipt/%d", id))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt_%d.pdf"`, id))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
