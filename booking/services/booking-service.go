package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/booking/model"
)

// ErrCompanyNotFound is the fail-closed outcome of tenant resolution: the
// booking code matched nothing, or matched only companies whose public
// booking is disabled. The boundary maps it to a not-found response, never
// to a server error.
var ErrCompanyNotFound = errors.New("company not found or booking disabled")

// ValidationError lists the required booking fields the submission left
// empty. No write is attempted when it is returned.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Notifier fans a freshly created booking out to the notification
// function. Failures are logged and dropped, a booking never fails
// because its notification did.
type Notifier interface {
	NotifyBookingCreated(ctx context.Context, companyId string, tripId string) error
}

type BookingService struct {
	companyDao  model.CompanyDao
	customerDao model.CustomerDao
	tripDao     model.TripDao
	notifier    Notifier
}

func NewBookingService(companyDao model.CompanyDao, customerDao model.CustomerDao, tripDao model.TripDao, notifier Notifier) *BookingService {
	return &BookingService{
		companyDao:  companyDao,
		customerDao: customerDao,
		tripDao:     tripDao,
		notifier:    notifier,
	}
}

// ResolveCompany maps a public booking code to the restricted projection
// of the first eligible company.
func (bs *BookingService) ResolveCompany(ctx context.Context, bookingCode string) (model.PublicCompany, error) {
	if strings.TrimSpace(bookingCode) == "" {
		return model.PublicCompany{}, &ValidationError{Missing: []string{"code"}}
	}

	company, found, err := bs.companyDao.FindByBookingCode(ctx, bookingCode)
	if err != nil {
		return model.PublicCompany{}, fmt.Errorf("company lookup failed: %w", err)
	}
	if !found {
		return model.PublicCompany{}, ErrCompanyNotFound
	}

	return company.Public(), nil
}

// CreateBooking runs the linear booking flow: validate, resolve the
// tenant, find-or-create the customer, create the trip. A failure after
// the customer write leaves that customer in place; there is no
// compensating rollback.
func (bs *BookingService) CreateBooking(ctx context.Context, request model.BookingRequest) (model.BookingResult, error) {
	if err := validateBookingRequest(request); err != nil {
		return model.BookingResult{}, err
	}

	company, found, err := bs.companyDao.FindByBookingCode(ctx, request.CompanyId)
	if err != nil {
		return model.BookingResult{}, fmt.Errorf("company lookup failed: %w", err)
	}
	if !found {
		return model.BookingResult{}, ErrCompanyNotFound
	}

	customerId, err := bs.resolveCustomer(ctx, company.Id, request)
	if err != nil {
		return model.BookingResult{}, err
	}

	trip := model.Trip{
		CompanyId:          company.Id,
		PickupDate:         request.PickupDate,
		FlightNumber:       model.FlightOrJobNumber(request.FlightNumber, request.JobNumber),
		PickupLocation:     request.PickupLocation,
		DropoffLocation:    request.DropoffLocation,
		NumberOfPassengers: request.NumberOfPassengers,
		Status:             model.TripStatusUnassigned,
		CustomerId:         customerId,
		Notes:              model.ComposeTripNotes(request),
	}

	tripId, err := bs.tripDao.Create(ctx, trip)
	if err != nil {
		return model.BookingResult{}, fmt.Errorf("trip creation failed: %w", err)
	}

	if bs.notifier != nil {
		if notifyErr := bs.notifier.NotifyBookingCreated(ctx, company.Id, tripId); notifyErr != nil {
			log.Printf("Could not notify booking %v for company %v: %v\n", tripId, company.Id, notifyErr)
		}
	}

	return model.BookingResult{TripId: tripId, CustomerId: customerId}, nil
}

// resolveCustomer finds-or-creates the customer record for the booking.
// When the submission carries no usable email the step is skipped entirely
// and the trip is created without a customer reference.
func (bs *BookingService) resolveCustomer(ctx context.Context, companyId string, request model.BookingRequest) (string, error) {
	normalizedEmail := model.NormalizeEmail(request.CustomerEmail)
	if normalizedEmail == "" {
		return "", nil
	}

	existing, found, err := bs.customerDao.FindByEmail(ctx, companyId, normalizedEmail)
	if err != nil {
		return "", fmt.Errorf("customer lookup failed: %w", err)
	}

	if !found {
		customerId, createErr := bs.customerDao.Create(ctx, model.Customer{
			CompanyId:   companyId,
			Email:       normalizedEmail,
			Name:        strings.TrimSpace(request.CustomerName),
			Phone:       strings.TrimSpace(request.CustomerPhone),
			CompanyName: strings.TrimSpace(request.CustomerCompany),
			IsActive:    true,
		})
		if createErr != nil {
			return "", fmt.Errorf("customer creation failed: %w", createErr)
		}
		return customerId, nil
	}

	// Patch with submitted values, keep existing ones where the
	// submission is empty.
	if strings.TrimSpace(request.CustomerName) != "" {
		existing.Name = strings.TrimSpace(request.CustomerName)
	}
	if strings.TrimSpace(request.CustomerPhone) != "" {
		existing.Phone = strings.TrimSpace(request.CustomerPhone)
	}
	if strings.TrimSpace(request.CustomerCompany) != "" {
		existing.CompanyName = strings.TrimSpace(request.CustomerCompany)
	}

	if err = bs.customerDao.Update(ctx, existing); err != nil {
		return "", fmt.Errorf("customer update failed: %w", err)
	}

	return existing.Id, nil
}

func validateBookingRequest(request model.BookingRequest) error {
	required := []struct {
		name  string
		value string
	}{
		{"companyId", request.CompanyId},
		{"customerName", request.CustomerName},
		{"customerEmail", request.CustomerEmail},
		{"customerPhone", request.CustomerPhone},
		{"pickupDate", request.PickupDate},
		{"pickupLocation", request.PickupLocation},
		{"dropoffLocation", request.DropoffLocation},
	}

	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}

	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}

	return nil
}
