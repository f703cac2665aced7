package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"unistay-backend/internal/service"
	"unistay-backend/internal/storage"
)

// Services are the application services the web layer calls into.
type Services struct {
	Auth        service.AuthService
	Properties  service.PropertyService
	Bookings    service.BookingService
	Chats       service.ChatService
	Maintenance service.MaintenanceService
	Payments    service.PaymentService
	Dashboards  service.DashboardService
}

// CookieConfig names the session and flash cookies.
type CookieConfig struct {
	Session    string
	Flash      string
	Secure     bool
	SessionTTL time.Duration
}

type Options struct {
	Cookies        CookieConfig
	TrustedProxies []string
	MaxUploadBytes int64
	// Media serves locally stored images under /media; nil when images live in object storage.
	Media *storage.LocalStore
}

type Handler struct {
	Services
	cookies   CookieConfig
	proxies   *TrustedProxies
	maxUpload int64
	media     *storage.LocalStore
	views     *renderer
}

func NewHandler(svcs Services, opts Options) (*Handler, error) {
	views, err := newRenderer()
	if err != nil {
		return nil, err
	}
	proxies, err := NewTrustedProxies(opts.TrustedProxies)
	if err != nil {
		return nil, err
	}
	if opts.Cookies.Session == "" {
		opts.Cookies.Session = "unistay_session"
	}
	if opts.Cookies.Flash == "" {
		opts.Cookies.Flash = "unistay_flash"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 5 << 20
	}
	return &Handler{
		Services:  svcs,
		cookies:   opts.Cookies,
		proxies:   proxies,
		maxUpload: opts.MaxUploadBytes,
		media:     opts.Media,
		views:     views,
	}, nil
}

// Router builds the route table. Route names are the keys of config.RouteSecurityConfig.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h.notFound(w, req)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h.renderStatus(w, req, http.StatusMethodNotAllowed, "That method is not allowed here.")
	})

	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet).Name("healthz")

	// auth
	r.HandleFunc("/login", h.handleLoginPage).Methods(http.MethodGet).Name("login")
	r.HandleFunc("/login", h.handleLogin).Methods(http.MethodPost).Name("login.submit")
	r.HandleFunc("/logout", h.handleLogout).Methods(http.MethodGet, http.MethodPost).Name("logout")
	r.HandleFunc("/signup/student", h.handleSignupStudent).Methods(http.MethodGet, http.MethodPost).Name("signup.student")
	r.HandleFunc("/signup/landlord", h.handleSignupLandlord).Methods(http.MethodGet, http.MethodPost).Name("signup.landlord")

	// catalog
	r.HandleFunc("/", h.handleHome).Methods(http.MethodGet).Name("home")
	r.HandleFunc("/property/{id:[0-9]+}", h.handlePropertyDetail).Methods(http.MethodGet).Name("property.detail")
	if h.media != nil {
		r.HandleFunc("/media/{key:.+}", h.handleMedia).Methods(http.MethodGet).Name("media")
	}

	// booking
	r.HandleFunc("/property/{id:[0-9]+}/book", h.handleBookingForm).Methods(http.MethodGet).Name("booking.form")
	r.HandleFunc("/property/{id:[0-9]+}/book", h.handleCreateBooking).Methods(http.MethodPost).Name("booking.create")
	r.HandleFunc("/booking/{id:[0-9]+}/notice", h.handleMoveInNotice).Methods(http.MethodGet).Name("booking.notice")

	// chat
	r.HandleFunc("/chat/{property_id:[0-9]+}/{other_user_id:[0-9]+}", h.handleChatThread).Methods(http.MethodGet).Name("chat.thread")
	r.HandleFunc("/chat/{property_id:[0-9]+}/{other_user_id:[0-9]+}", h.handleSendMessage).Methods(http.MethodPost).Name("chat.send")
	r.HandleFunc("/api/recent-chats", h.handleRecentChats).Methods(http.MethodGet).Name("recent_chats")

	// owner
	r.HandleFunc("/owner/dashboard", h.handleOwnerDashboard).Methods(http.MethodGet).Name("owner.dashboard")
	r.HandleFunc("/owner/property/new", h.handleNewPropertyPage).Methods(http.MethodGet).Name("owner.property.new")
	r.HandleFunc("/owner/property/new", h.handleCreateProperty).Methods(http.MethodPost).Name("owner.property.create")
	r.HandleFunc("/owner/property/{id:[0-9]+}/edit", h.handleEditPropertyPage).Methods(http.MethodGet).Name("owner.property.edit")
	r.HandleFunc("/owner/property/{id:[0-9]+}/edit", h.handleUpdateProperty).Methods(http.MethodPost).Name("owner.property.update")
	r.HandleFunc("/owner/booking/{id:[0-9]+}/confirm", h.handleConfirmBooking).Methods(http.MethodPost).Name("owner.booking.confirm")
	r.HandleFunc("/owner/booking/{id:[0-9]+}/reject", h.handleRejectBooking).Methods(http.MethodPost).Name("owner.booking.reject")
	r.HandleFunc("/owner/booking/{id:[0-9]+}/complete", h.handleCompleteBooking).Methods(http.MethodPost).Name("owner.booking.complete")
	r.HandleFunc("/owner/maintenance/{id:[0-9]+}", h.handleUpdateMaintenance).Methods(http.MethodPost).Name("owner.maintenance.update")

	// tenant
	r.HandleFunc("/tenant/dashboard", h.handleTenantDashboard).Methods(http.MethodGet).Name("tenant.dashboard")
	r.HandleFunc("/tenant/maintenance", h.handleSubmitMaintenance).Methods(http.MethodPost).Name("tenant.maintenance.create")
	r.HandleFunc("/tenant/maintenance/{id:[0-9]+}/delete", h.handleDeleteMaintenance).Methods(http.MethodPost).Name("tenant.maintenance.delete")
	r.HandleFunc("/tenant/booking/{id:[0-9]+}/cancel", h.handleCancelBooking).Methods(http.MethodPost).Name("tenant.booking.cancel")

	// payments
	r.HandleFunc("/payment", h.handlePaymentForm).Methods(http.MethodGet).Name("payment.form")
	r.HandleFunc("/payment", h.handleCreatePayment).Methods(http.MethodPost).Name("payment.create")
	r.HandleFunc("/receipt/{id:[0-9]+}", h.handleReceipt).Methods(http.MethodGet).Name("receipt")
	r.HandleFunc("/receipt/{id:[0-9]+}/pdf", h.handleReceiptPDF).Methods(http.MethodGet).Name("receipt.pdf")

	r.Use(h.authenticate, h.authorize)

	return withRequestID(withRequestLog(withSecurityHeaders(h.withRecover(r))))
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
