// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic        SecurityLevel = iota // No session required
	SecurityAuthenticated                      // Any signed-in user
	SecurityStudent                            // Students (and superusers)
	SecurityOwner                              // Owners, admins (and superusers)
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityPublic:
		return "public"
	case SecurityAuthenticated:
		return "authenticated"
	case SecurityStudent:
		return "student"
	case SecurityOwner:
		return "owner"
	}
	return "unknown"
}

// RouteSecurityConfig maps named HTTP routes to their required security level
var RouteSecurityConfig = map[string]SecurityLevel{
	// Auth - Public
	"login":           SecurityPublic,
	"login.submit":    SecurityPublic,
	"signup.student":  SecurityPublic,
	"signup.landlord": SecurityPublic,
	"healthz":         SecurityPublic,

	// Auth - Authenticated
	"logout": SecurityAuthenticated,

	// Catalog - Public
	"home":            SecurityPublic,
	"property.detail": SecurityPublic,
	"media":           SecurityPublic,

	// Booking
	"booking.form":   SecurityStudent,
	"booking.create": SecurityStudent,
	"booking.notice": SecurityAuthenticated,

	// Chat - Authenticated
	"chat.thread":  SecurityAuthenticated,
	"chat.send":    SecurityAuthenticated,
	"recent_chats": SecurityAuthenticated,

	// Owner
	"owner.dashboard":          SecurityOwner,
	"owner.property.new":       SecurityOwner,
	"owner.property.create":    SecurityOwner,
	"owner.property.edit":      SecurityOwner,
	"owner.property.update":    SecurityOwner,
	"owner.booking.confirm":    SecurityOwner,
	"owner.booking.reject":     SecurityOwner,
	"owner.booking.complete":   SecurityOwner,
	"owner.maintenance.update": SecurityOwner,

	// Tenant
	"tenant.dashboard":          SecurityStudent,
	"tenant.maintenance.create": SecurityStudent,
	"tenant.maintenance.delete": SecurityStudent,
	"tenant.booking.cancel":     SecurityStudent,

	// Payments - Public (guests may pay)
	"payment.form":   SecurityPublic,
	"payment.create": SecurityPublic,
	"receipt":        SecurityPublic,
	"receipt.pdf":    SecurityPublic,
}

// GetSecurityLevel returns the security level for a named route
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := RouteSecurityConfig[route]; exists {
		return level
	}
	// Default to signed-in for unknown routes
	return SecurityAuthenticated
}
