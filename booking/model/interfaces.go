package model

import "context"

type CompanyDao interface {
	// FindByBookingCode returns the first company whose booking code
	// matches exactly and whose public booking is enabled. The second
	// return value is false when no such company exists.
	FindByBookingCode(ctx context.Context, bookingCode string) (Company, bool, error)
}

type CustomerDao interface {
	// FindByEmail looks a customer up by (company, normalized email) and
	// returns the first match.
	FindByEmail(ctx context.Context, companyId string, normalizedEmail string) (Customer, bool, error)
	Create(ctx context.Context, customer Customer) (string, error)
	Update(ctx context.Context, customer Customer) error
}

type TripDao interface {
	Create(ctx context.Context, trip Trip) (string, error)
}
