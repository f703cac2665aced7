package http

import (
	"bytes"
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
)

//go:embed templates/*.html templates/pages/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"money": domain.FormatCents,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2 Jan 2006")
	},
	"datetime": func(t time.Time) string { return t.Format("2 Jan 2006 15:04") },
	"isoDate":  func(t time.Time) string { return t.Format("2006-01-02") },
	"inc":      func(n int32) int32 { return n + 1 },
	"sub":      func(n int32) int32 { return n - 1 },
	"derefTime": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2 Jan 2006")
	},
}

// renderer holds one template set per page, each combined with the shared layout.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	r := &renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", f, err)
		}
		r.pages[strings.TrimSuffix(path.Base(f), ".html")] = t
	}
	return r, nil
}

// page is the data every template receives.
type page struct {
	Title   string
	Caller  domain.Caller
	Flash   *flash
	Form    url.Values
	Errors  map[string]string
	Message string
	Data    any
}

func (h *Handler) newPage(w http.ResponseWriter, r *http.Request, title string, data any) *page {
	return &page{
		Title:  title,
		Caller: CallerFromContext(r.Context()),
		Flash:  h.popFlash(w, r),
		Form:   url.Values{},
		Errors: map[string]string{},
		Data:   data,
	}
}

// withErrors copies a validation failure and the submitted form onto the page.
func (p *page) withErrors(r *http.Request, v *domain.ValidationError) *page {
	p.Form = r.PostForm
	p.Message = v.Message
	if v.Fields != nil {
		p.Errors = v.Fields
	}
	return p
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, p *page) {
	t, ok := h.views.pages[name]
	if !ok {
		logger.ErrorContext(r.Context(), "Unknown template", "template", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		logger.ErrorContext(r.Context(), "Failed to render template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) renderStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	if isAPI(r) {
		writeJSONError(w, status, message)
		return
	}
	p := h.newPage(w, r, http.StatusText(status), nil)
	p.Message = message
	h.render(w, r, status, "error", p)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.renderStatus(w, r, http.StatusNotFound, "The page you were looking for does not exist.")
}

// fail maps a service error onto a response. Rejections become a flash
// message and a redirect to fallback; unexpected errors become a 500 page.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var (
		v       *domain.ValidationError
		toolErr *domain.ExternalToolError
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.notFound(w, r)
	case errors.Is(err, domain.ErrForbidden):
		if isAPI(r) {
			writeJSONError(w, http.StatusForbidden, err.Error())
			return
		}
		h.setFlash(w, flashError, "Access denied. You are not authorized to do that.")
		http.Redirect(w, r, fallback, http.StatusSeeOther)
	case errors.As(err, &v):
		if isAPI(r) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": v.Message, "fields": v.Fields})
			return
		}
		h.setFlash(w, flashError, v.Error())
		http.Redirect(w, r, fallback, http.StatusSeeOther)
	case errors.As(err, &toolErr):
		logger.ErrorContext(r.Context(), "External tool failed", "tool", toolErr.Tool, "error", toolErr.Err)
		h.setFlash(w, flashError, "We could not generate that document right now.")
		http.Redirect(w, r, fallback, http.StatusSeeOther)
	default:
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		h.renderStatus(w, r, http.StatusInternalServerError, "Something went wrong on our side.")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

const (
	flashSuccess = "success"
	flashError   = "error"
)

// flash is a one-shot message carried to the next page in a cookie.
type flash struct {
	Kind    string `json:"k"`
	Message string `json:"m"`
}

func (h *Handler) setFlash(w http.ResponseWriter, kind, msg string) {
	b, _ := json.Marshal(flash{Kind: kind, Message: msg})
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.Flash,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) popFlash(w http.ResponseWriter, r *http.Request) *flash {
	c, err := r.Cookie(h.cookies.Flash)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: h.cookies.Flash, Path: "/", MaxAge: -1})
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var f flash
	if json.Unmarshal(raw, &f) != nil || f.Message == "" {
		return nil
	}
	return &f
}

func (h *Handler) setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.Session,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookies.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: h.cookies.Session, Path: "/", MaxAge: -1, HttpOnly: true})
}
