package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"

	"github.com/gorilla/mux"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
	"unistay-backend/internal/service"
	"unistay-backend/internal/storage"
)

type homeView struct {
	*service.PropertyPage
	HouseTypes []domain.HouseType
	Genders    []domain.Gender
}

// PageURL links to another page of the same search.
func (v homeView) PageURL(page int32) string {
	q := url.Values{}
	f := v.Filters
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.HouseType != "" {
		q.Set("house_type", string(f.HouseType))
	}
	if f.GenderPreference != "" {
		q.Set("gender_preference", string(f.GenderPreference))
	}
	if f.MinBedrooms > 0 {
		q.Set("room_count", strconv.Itoa(int(f.MinBedrooms)))
	}
	if f.PriceSort != "" {
		q.Set("price_sort", string(f.PriceSort))
	}
	q.Set("page", strconv.Itoa(int(page)))
	return "/?" + q.Encode()
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.PropertySearch{
		Query:            q.Get("q"),
		HouseType:        domain.HouseType(q.Get("house_type")),
		GenderPreference: domain.Gender(q.Get("gender_preference")),
		PriceSort:        domain.PriceSort(q.Get("price_sort")),
	}
	if n, err := strconv.Atoi(q.Get("room_count")); err == nil {
		f.MinBedrooms = int32(n)
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil {
		f.Page = int32(n)
	}

	result, err := h.Properties.Search(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	view := homeView{
		PropertyPage: result,
		HouseTypes:   domain.HouseTypes,
		Genders:      []domain.Gender{domain.GenderMale, domain.GenderFemale},
	}
	h.render(w, r, http.StatusOK, "home", h.newPage(w, r, "Find your student home", view))
}

func (h *Handler) handlePropertyDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	p, err := h.Properties.GetProperty(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "property_detail", h.newPage(w, r, p.Title, p))
}

// handleMedia streams an image from the local store.
func (h *Handler) handleMedia(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	file, err := h.media.Open(key)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, storage.ErrInvalidKey) {
			logger.WarnContext(r.Context(), "Failed to open media", "key", key, "error", err)
		}
		h.notFound(w, r)
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, file); err != nil {
		logger.WarnContext(r.Context(), "Failed to stream media", "key", key, "error", err)
	}
}
