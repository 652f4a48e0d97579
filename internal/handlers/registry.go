package handlers

// AppHandlers bundles every HTTP handler for route registration.
type AppHandlers struct {
	PlanHandler       *PlanHandler
	MembershipHandler *MembershipHandler
	BookingHandler    *BookingHandler
}
