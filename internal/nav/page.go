package nav

// Page identifies a client view selected by the route dispatcher.
type Page string

const (
	PageLanding            Page = "landing"
	PageHome               Page = "home"
	PageTherapistList      Page = "therapist_list"
	PageTherapistDetail    Page = "therapist_detail"
	PageBooking            Page = "booking"
	PageBookingSuccess     Page = "booking_success"
	PageBookingFailure     Page = "booking_failure"
	PageClientDashboard    Page = "client_dashboard"
	PageTherapistDashboard Page = "therapist_dashboard"
	PageTherapistRegister  Page = "therapist_register"
	PageNotFound           Page = "not_found"
)
