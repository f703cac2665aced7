package http

import (
	"net/http"
)

func (h *Handler) handleTenantDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Dashboards.TenantDashboard(r.Context(), CallerFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "tenant_dashboard", h.newPage(w, r, "My dashboard", d))
}

func (h *Handler) handleSubmitMaintenance(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "Malformed form submission.")
		return
	}
	if _, err := h.Maintenance.SubmitRequest(r.Context(), CallerFromContext(r.Context()), maintenanceForm(r)); err != nil {
		h.fail(w, r, err, "/tenant/dashboard")
		return
	}
	h.setFlash(w, flashSuccess, "Maintenance request submitted.")
	http.Redirect(w, r, "/tenant/dashboard", http.StatusSeeOther)
}

func (h *Handler) handleDeleteMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := h.Maintenance.DeleteRequest(r.Context(), CallerFromContext(r.Context()), id); err != nil {
		h.fail(w, r, err, "/tenant/dashboard")
		return
	}
	h.setFlash(w, flashSuccess, "Maintenance request deleted.")
	http.Redirect(w, r, "/tenant/dashboard", http.StatusSeeOther)
}
