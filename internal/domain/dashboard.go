package domain

type OwnerDashboard struct {
	Properties      []Property
	PendingBookings []Booking
	Bookings        []Booking
	Maintenance     []MaintenanceRequest
	RecentChats     []ConversationSummary
}

type TenantDashboard struct {
	CurrentBooking *Booking
	Bookings       []Booking
	Maintenance    []MaintenanceRequest
	RecentChats    []ConversationSummary
}
