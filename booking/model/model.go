package model

import "strings"

const (
	TripStatusUnassigned = "Unassigned"

	TripTypeAirport  = "Airport Trip"
	TripTypeStandard = "Standard Trip"

	// NoFlightNumber is stored when a booking carries neither a flight
	// number nor a job number.
	NoFlightNumber = "N/A"
)

type Company struct {
	Id               string `json:"id"`
	Name             string `json:"name"`
	DisplayName      string `json:"displayName"`
	LogoUrl          string `json:"logoUrl"`
	BookingCode      string `json:"bookingCode"`
	BookingEnabled   bool   `json:"bookingEnabled"`
	StripeCustomerId string `json:"stripeCustomerId,omitempty"`
	SubscriptionPlan string `json:"subscriptionPlan,omitempty"`
}

// PublicCompany is the projection exposed through the public booking form.
// Billing identifiers and every other internal field stay out.
type PublicCompany struct {
	Id             string `json:"id"`
	Name           string `json:"name"`
	DisplayName    string `json:"displayName"`
	LogoUrl        string `json:"logoUrl"`
	BookingCode    string `json:"bookingCode"`
	BookingEnabled bool   `json:"bookingEnabled"`
}

func (c Company) Public() PublicCompany {
	return PublicCompany{
		Id:             c.Id,
		Name:           c.Name,
		DisplayName:    c.DisplayName,
		LogoUrl:        c.LogoUrl,
		BookingCode:    c.BookingCode,
		BookingEnabled: c.BookingEnabled,
	}
}

type Customer struct {
	Id          string `json:"id"`
	CompanyId   string `json:"companyId"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName,omitempty"`
	IsActive    bool   `json:"isActive"`
}

type Trip struct {
	Id                 string `json:"id"`
	CompanyId          string `json:"companyId"`
	PickupDate         string `json:"pickupDate"`
	FlightNumber       string `json:"flightNumber"`
	PickupLocation     string `json:"pickupLocation"`
	DropoffLocation    string `json:"dropoffLocation"`
	NumberOfPassengers int    `json:"numberOfPassengers"`
	Status             string `json:"status"`
	CustomerId         string `json:"customerId,omitempty"`
	Notes              string `json:"notes,omitempty"`
}

type BookingRequest struct {
	CompanyId           string `json:"companyId"`
	CustomerName        string `json:"customerName"`
	CustomerEmail       string `json:"customerEmail"`
	CustomerPhone       string `json:"customerPhone"`
	CustomerCompany     string `json:"customerCompany,omitempty"`
	TripType            string `json:"tripType"`
	PickupDate          string `json:"pickupDate"`
	FlightNumber        string `json:"flightNumber,omitempty"`
	JobNumber           string `json:"jobNumber,omitempty"`
	PickupLocation      string `json:"pickupLocation"`
	DropoffLocation     string `json:"dropoffLocation"`
	NumberOfPassengers  int    `json:"numberOfPassengers"`
	VehicleType         string `json:"vehicleType,omitempty"`
	IsRoundTrip         bool   `json:"isRoundTrip"`
	ReturnDate          string `json:"returnDate,omitempty"`
	ReturnTime          string `json:"returnTime,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

type BookingResult struct {
	TripId     string
	CustomerId string
}

// NormalizeEmail is applied before every customer lookup and before every
// store, so the same address always hits the same record.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FlightOrJobNumber resolves the overloaded flight-number field:
// the flight number wins, then the job number, then NoFlightNumber.
func FlightOrJobNumber(flightNumber string, jobNumber string) string {
	if strings.TrimSpace(flightNumber) != "" {
		return strings.TrimSpace(flightNumber)
	}
	if strings.TrimSpace(jobNumber) != "" {
		return strings.TrimSpace(jobNumber)
	}
	return NoFlightNumber
}

// ComposeTripNotes folds the request fields that have no column of their
// own (vehicle preference, round-trip return leg) into the trip notes,
// after any special instructions.
func ComposeTripNotes(request BookingRequest) string {
	var lines []string
	if strings.TrimSpace(request.SpecialInstructions) != "" {
		lines = append(lines, strings.TrimSpace(request.SpecialInstructions))
	}
	if strings.TrimSpace(request.VehicleType) != "" {
		lines = append(lines, "Vehicle: "+strings.TrimSpace(request.VehicleType))
	}
	if request.IsRoundTrip {
		returnLeg := strings.TrimSpace(strings.TrimSpace(request.ReturnDate) + " " + strings.TrimSpace(request.ReturnTime))
		if returnLeg == "" {
			lines = append(lines, "Round trip")
		} else {
			lines = append(lines, "Round trip, return "+returnLeg)
		}
	}
	return strings.Join(lines, "\n")
}
