package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"unistay-backend/internal/domain"
)

func (h *Handler) handleOwnerDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Dashboards.OwnerDashboard(r.Context(), CallerFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "owner_dashboard", h.newPage(w, r, "Owner dashboard", d))
}

type propertyFormView struct {
	Property   *domain.Property
	Amenities  []domain.Amenity
	Selected   map[int32]bool
	HouseTypes []domain.HouseType
	Genders    []domain.Gender
	Action     string
}

func (h *Handler) propertyFormView(r *http.Request, p *domain.Property, selected []int32) (propertyFormView, error) {
	amenities, err := h.Properties.ListAmenities(r.Context())
	if err != nil {
		return propertyFormView{}, err
	}
	v := propertyFormView{
		Property:   p,
		Amenities:  amenities,
		Selected:   make(map[int32]bool),
		HouseTypes: domain.HouseTypes,
		Genders:    []domain.Gender{domain.GenderMale, domain.GenderFemale},
		Action:     "/owner/property/new",
	}
	if p != nil {
		v.Action = fmt.Sprintf("/owner/property/%d/edit", p.ID)
		for _, a := range p.Amenities {
			v.Selected[a.ID] = true
		}
	}
	if selected != nil {
		v.Selected = make(map[int32]bool, len(selected))
		for _, id := range selected {
			v.Selected[id] = true
		}
	}
	return v, nil
}

// propertyFormValues fills the edit form from a stored listing.
func propertyFormValues(p *domain.Property) map[string][]string {
	vals := map[string][]string{
		"house_type":        {string(p.HouseType)},
		"title":             {p.Title},
		"rent":              {fmt.Sprintf("%d.%02d", p.RentCents/100, p.RentCents%100)},
		"university_nearby": {p.UniversityNearby},
		"address":           {p.Address},
		"description":       {p.Description},
		"bedrooms":          {strconv.Itoa(int(p.Bedrooms))},
		"total_room":        {strconv.Itoa(int(p.TotalRoom))},
		"total_toilets":     {strconv.Itoa(int(p.TotalToilets))},
		"max_tenants":       {strconv.Itoa(int(p.MaxTenants))},
		"gender_preferred":  {string(p.GenderPreferred)},
		"total_spots":       {strconv.Itoa(int(p.TotalSpots))},
	}
	if p.SquareFootage != nil {
		vals["square_footage"] = []string{strconv.Itoa(int(*p.SquareFootage))}
	}
	return vals
}

func (h *Handler) handleNewPropertyPage(w http.ResponseWriter, r *http.Request) {
	view, err := h.propertyFormView(r, nil, nil)
	if err != nil {
		h.fail(w, r, err, "/owner/dashboard")
		return
	}
	h.render(w, r, http.StatusOK, "property_form", h.newPage(w, r, "Add a property", view))
}

func (h *Handler) handleEditPropertyPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	p, err := h.Properties.GetForOwner(r.Context(), CallerFromContext(r.Context()), id)
	if err != nil {
		h.fail(w, r, err, "/owner/dashboard")
		return
	}
	view, err := h.propertyFormView(r, p, nil)
	if err != nil {
		h.fail(w, r, err, "/owner/dashboard")
		return
	}
	page := h.newPage(w, r, "Edit "+p.Title, view)
	page.Form = propertyFormValues(p)
	h.render(w, r, http.StatusOK, "property_form", page)
}

func (h *Handler) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	h.saveProperty(w, r, 0)
}

func (h *Handler) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	h.saveProperty(w, r, id)
}

// saveProperty handles both the create (id 0) and edit forms.
func (h *Handler) saveProperty(w http.ResponseWriter, r *http.Request, id int32) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+(1<<20))
	if err := r.ParseMultipartForm(h.maxUpload + (1 << 20)); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.setFlash(w, flashError, "The upload was too large or malformed.")
		http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
		return
	}
	caller := CallerFromContext(r.Context())

	in, f := propertyForm(r)
	image, err := h.imageUpload(r)
	if err != nil {
		f.v.Add("main_image", "the image could not be read")
	}

	var p *domain.Property
	if convErr := f.err(nil); convErr == nil {
		if id == 0 {
			p, err = h.Properties.CreateProperty(r.Context(), caller, in, image)
		} else {
			p, err = h.Properties.UpdateProperty(r.Context(), caller, id, in, image)
		}
	} else {
		err = convErr
	}

	if err != nil {
		var v *domain.ValidationError
		if !errors.As(err, &v) {
			h.fail(w, r, err, "/owner/dashboard")
			return
		}
		var existing *domain.Property
		if id != 0 {
			if existing, err = h.Properties.GetForOwner(r.Context(), caller, id); err != nil {
				h.fail(w, r, err, "/owner/dashboard")
				return
			}
		}
		view, verr := h.propertyFormView(r, existing, in.AmenityIDs)
		if verr != nil {
			h.fail(w, r, verr, "/owner/dashboard")
			return
		}
		title := "Add a property"
		if existing != nil {
			title = "Edit " + existing.Title
		}
		h.render(w, r, http.StatusOK, "property_form", h.newPage(w, r, title, view).withErrors(r, v))
		return
	}

	msg := "Property listed successfully."
	if id != 0 {
		msg = "Property updated."
	}
	h.setFlash(w, flashSuccess, msg)
	http.Redirect(w, r, fmt.Sprintf("/property/%d", p.ID), http.StatusSeeOther)
}

func (h *Handler) handleUpdateMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "Malformed form submission.")
		return
	}
	status := domain.MaintenanceStatus(r.PostFormValue("status"))
	notes := r.PostFormValue("resolution_notes")
	if _, err := h.Maintenance.UpdateRequest(r.Context(), CallerFromContext(r.Context()), id, status, notes); err != nil {
		h.fail(w, r, err, "/owner/dashboard")
		return
	}
	h.setFlash(w, flashSuccess, "Maintenance request updated.")
	http.Redirect(w, r, "/owner/dashboard", http.StatusSeeOther)
}
