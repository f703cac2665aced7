package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
)

type signupView struct {
	Role    string
	Courses []struct{ Code, Label string }
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if CallerFromContext(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, h.landingPage(CallerFromContext(r.Context())), http.StatusSeeOther)
		return
	}
	p := h.newPage(w, r, "Log in", nil)
	p.Form.Set("next", r.URL.Query().Get("next"))
	h.render(w, r, http.StatusOK, "login", p)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "Malformed form submission.")
		return
	}
	token, user, err := h.Auth.Login(r.Context(), ClientIP(r, h.proxies), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		var v *domain.ValidationError
		if errors.As(err, &v) {
			p := h.newPage(w, r, "Log in", nil).withErrors(r, v)
			h.render(w, r, http.StatusOK, "login", p)
			return
		}
		h.fail(w, r, err, "/login")
		return
	}

	h.setSession(w, token)
	h.setFlash(w, flashSuccess, "Welcome back, "+user.DisplayName()+"!")
	dest := h.landingPage(user.Caller())
	if next := safeNext(r.PostFormValue("next")); next != "" {
		dest = next
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(h.cookies.Session); err == nil {
		if err := h.Auth.Logout(r.Context(), c.Value); err != nil {
			logger.WarnContext(r.Context(), "Logout failed", "error", err)
		}
	}
	h.clearSession(w)
	h.setFlash(w, flashSuccess, "You have been logged out.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) handleSignupStudent(w http.ResponseWriter, r *http.Request) {
	h.handleSignup(w, r, domain.RoleStudent)
}

func (h *Handler) handleSignupLandlord(w http.ResponseWriter, r *http.Request) {
	h.handleSignup(w, r, domain.RoleOwner)
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request, role domain.Role) {
	view := signupView{Role: role.String(), Courses: domain.Courses}
	title := "Student sign up"
	if role == domain.RoleOwner {
		title = "Landlord sign up"
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "signup", h.newPage(w, r, title, view))
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "Malformed form submission.")
		return
	}

	user, err := h.Auth.Signup(r.Context(), role, signupForm(r))
	if err != nil {
		var v *domain.ValidationError
		if errors.As(err, &v) {
			h.render(w, r, http.StatusOK, "signup", h.newPage(w, r, title, view).withErrors(r, v))
			return
		}
		h.fail(w, r, err, "/")
		return
	}

	logger.InfoContext(r.Context(), "User signed up", "userID", user.ID, "role", role)
	h.setFlash(w, flashSuccess, "Account created. Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// landingPage is where a user goes after logging in.
func (h *Handler) landingPage(c domain.Caller) string {
	switch {
	case c.Role == domain.RoleStudent:
		return "/tenant/dashboard"
	case c.CanListProperties():
		return "/owner/dashboard"
	default:
		return "/"
	}
}

// safeNext accepts only local paths so the login form cannot redirect off-site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return ""
	}
	return next
}
