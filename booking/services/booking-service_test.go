package services

import (
	"context"
	"errors"
	"testing"

	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/booking/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCompanyDao struct {
	mock.Mock
}

func (m *MockCompanyDao) FindByBookingCode(ctx context.Context, bookingCode string) (model.Company, bool, error) {
	args := m.Called(ctx, bookingCode)
	return args.Get(0).(model.Company), args.Bool(1), args.Error(2)
}

type MockCustomerDao struct {
	mock.Mock
}

func (m *MockCustomerDao) FindByEmail(ctx context.Context, companyId string, normalizedEmail string) (model.Customer, bool, error) {
	args := m.Called(ctx, companyId, normalizedEmail)
	return args.Get(0).(model.Customer), args.Bool(1), args.Error(2)
}

func (m *MockCustomerDao) Create(ctx context.Context, customer model.Customer) (string, error) {
	args := m.Called(ctx, customer)
	return args.String(0), args.Error(1)
}

func (m *MockCustomerDao) Update(ctx context.Context, customer model.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

type MockTripDao struct {
	mock.Mock
}

func (m *MockTripDao) Create(ctx context.Context, trip model.Trip) (string, error) {
	args := m.Called(ctx, trip)
	return args.String(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyBookingCreated(ctx context.Context, companyId string, tripId string) error {
	args := m.Called(ctx, companyId, tripId)
	return args.Error(0)
}

func enabledCompany() model.Company {
	return model.Company{
		Id:               "company-1",
		Name:             "acme",
		DisplayName:      "Acme Limo",
		BookingCode:      "ACME1",
		BookingEnabled:   true,
		StripeCustomerId: "cus_123",
	}
}

func validRequest() model.BookingRequest {
	return model.BookingRequest{
		CompanyId:          "ACME1",
		CustomerName:       "Jordan Miles",
		CustomerEmail:      "Jordan.Miles@Example.com",
		CustomerPhone:      "+1 555 0100",
		TripType:           model.TripTypeAirport,
		PickupDate:         "2024-03-01T09:00",
		FlightNumber:       "UA123",
		PickupLocation:     "Acme HQ",
		DropoffLocation:    "SFO Terminal 2",
		NumberOfPassengers: 2,
	}
}

func TestResolveCompanyReturnsRestrictedProjection(t *testing.T) {
	companyDao := new(MockCompanyDao)
	companyDao.On("FindByBookingCode", mock.Anything, "ACME1").Return(enabledCompany(), true, nil)

	service := NewBookingService(companyDao, new(MockCustomerDao), new(MockTripDao), nil)

	company, err := service.ResolveCompany(context.Background(), "ACME1")
	assert.NoError(t, err)
	assert.Equal(t, model.PublicCompany{
		Id:             "company-1",
		Name:           "acme",
		DisplayName:    "Acme Limo",
		BookingCode:    "ACME1",
		BookingEnabled: true,
	}, company)
}

func TestResolveCompanyNotFoundIsDistinctFromFailure(t *testing.T) {
	companyDao := new(MockCompanyDao)
	companyDao.On("FindByBookingCode", mock.Anything, "GHOST").Return(model.Company{}, false, nil)

	service := NewBookingService(companyDao, new(MockCustomerDao), new(MockTripDao), nil)

	_, err := service.ResolveCompany(context.Background(), "GHOST")
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestResolveCompanyEmptyCodeIsValidationError(t *testing.T) {
	companyDao := new(MockCompanyDao)
	service := NewBookingService(companyDao, new(MockCustomerDao), new(MockTripDao), nil)

	_, err := service.ResolveCompany(context.Background(), "   ")

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	companyDao.AssertNotCalled(t, "FindByBookingCode", mock.Anything, mock.Anything)
}

func TestCreateBookingNewCustomerCreatesCustomerAndTrip(t *testing.T) {
	companyDao := new(MockCompanyDao)
	customerDao := new(MockCustomerDao)
	tripDao := new(MockTripDao)

	companyDao.On("FindByBookingCode", mock.Anything, "ACME1").Return(enabledCompany(), true, nil)
	customerDao.On("FindByEmail", mock.Anything, "company-1", "jordan.miles@example.com").Return(model.Customer{}, false, nil)

	var createdCustomer model.Customer
	customerDao.On("Create", mock.Anything, mock.AnythingOfType("model.Customer")).
		Run(func(args mock.Arguments) { createdCustomer = args.Get(1).(model.Customer) }).
		Return("customer-1", nil)

	var createdTrip model.Trip
	tripDao.On("Create", mock.Anything, mock.AnythingOfType("model.Trip")).
		Run(func(args mock.Arguments) { createdTrip = args.Get(1).(model.Trip) }).
		Return("trip-1", nil)

	service := NewBookingService(companyDao, customerDao, tripDao, nil)

	result, err := service.CreateBooking(context.Background(), validRequest())
	assert.NoError(t, err)
	assert.Equal(t, "trip-1", result.TripId)
	assert.Equal(t, "customer-1", result.CustomerId)

	customerDao.AssertNumberOfCalls(t, "Create", 1)
	assert.Equal(t, "jordan.miles@example.com", createdCustomer.Email)
	assert.True(t, createdCustomer.IsActive)

	tripDao.AssertNumberOfCalls(t, "Create", 1)
	assert.Equal(t, model.TripStatusUnassigned, createdTrip.Status)
	assert.Equal(t, "customer-1", createdTrip.CustomerId)
	assert.Equal(t, "UA123", createdTrip.FlightNumber)
	assert.Equal(t, "company-1", createdTrip.CompanyId)
}

func TestCreateBookingExistingCustomerIsPatchedNotDuplicated(t *testing.T) {
	companyDao := new(MockCompanyDao)
	customerDao := new(MockCustomerDao)
	tripDao := new(MockTripDao)

	existing := model.Customer{
		Id:          "customer-7",
		CompanyId:   "company-1",
		Email:       "jordan.miles@example.com",
		Name:        "J. Miles",
		Phone:       "+1 555 9999",
		CompanyName: "Miles Corp",
		IsActive:    true,
	}

	companyDao.On("FindByBookingCode", mock.Anything, "ACME1").Return(enabledCompany(), true, nil)
	customerDao.On("FindByEmail", mock.Anything, "company-1", "jordan.miles@example.com").Return(existing, true, nil)

	var updatedCustomer model.Customer
	customerDao.On("Update", mock.Anything, mock.AnythingOfType("model.Customer")).
		Run(func(args mock.Arguments) { updatedCustomer = args.Get(1).(model.Customer) }).
		Return(nil)
	tripDao.On("Create", mock.Anything, mock.AnythingOfType("model.Trip")).Return("trip-2", nil)

	service := NewBookingService(companyDao, customerDao, tripDao, nil)

	request := validRequest()
	request.CustomerPhone = "+1 555 0100"
	request.CustomerCompany = "" // empty submission must not wipe the stored value

	result, err := service.CreateBooking(context.Background(), request)
	assert.NoError(t, err)
	assert.Equal(t, "customer-7", result.CustomerId)

	customerDao.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Equal(t, "customer-7", updatedCustomer.Id)
	assert.Equal(t, "Jordan Miles", updatedCustomer.Name)
	assert.Equal(t, "+1 555 0100", updatedCustomer.Phone)
	assert.Equal(t, "Miles Corp", updatedCustomer.CompanyName)
}

func TestCreateBookingMissingFieldPerformsNoWrites(t *testing.T) {
	companyDao := new(MockCompanyDao)
	customerDao := new(MockCustomerDao)
	tripDao := new(MockTripDao)

	service := NewBookingService(companyDao, customerDao, tripDao, nil)

	request := validRequest()
	request.PickupLocation = ""

	_, err := service.CreateBooking(context.Background(), request)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Missing, "pickupLocation")

	companyDao.AssertNotCalled(t, "FindByBookingCode", mock.Anything, mock.Anything)
	customerDao.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	tripDao.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBookingUnknownCodePerformsNoWrites(t *testing.T) {
	companyDao := new(MockCompanyDao)
	customerDao := new(MockCustomerDao)
	tripDao := new(MockTripDao)

	companyDao.On("FindByBookingCode", mock.Anything, "ACME1").Return(model.Company{}, false, nil)

	service := NewBookingService(companyDao, customerDao, tripDao, nil)

	_, err := service.CreateBooking(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrCompanyNotFound)

	customerDao.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything, mock.Anything)
	tripDao.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBookingStandardTripUsesJobNumber(t *testing.T) {
	companyDao := new(MockCompanyDao)
	customerDao := new(MockCustomerDao)
	tripDao := new(MockTripDao)

	companyDao.On("FindByBookingCode", mock.Anything, "ACME1").Return(enabledCompany(), true, nil)
	customerDao.On("FindByEmail", mock.Anything, mock.Anything, mock.Anything).Return(model.Customer{Id: "customer-1"}, true, nil)
	customerDao.On("Update", mock.Anything, mock.Anything).Return(nil)

	var createdTrip model.Trip
	tripDao.On("Create", mock.Anything, mock.AnythingOfType("model.Trip")).
		Run(func(args mock.Arguments) { createdTrip = args.Get(1).(model.Trip) }).
		Return("trip-3", nil)

	service := NewBookingService(companyDao, customerDao, tripDao, nil)

	request := validRequest()
	request.TripType = model.TripTypeStandard
	request.FlightNumber = ""
	request.JobNumber = "JOB-42"

	_, err := service.CreateBooking(context.Background(), request)
	assert.NoError(t, err)
	assert.Equal(t, "JOB-42", createdTrip.FlightNumber)
}

func TestCreateBookingDefaultsFlightFieldWhenNeitherSupplied(t *testing.T) {
	companyDao := new(MockCompanyDao)
	customerDao := new(MockCustomerDao)
	tripDao := new(MockTripDao)

	companyDao.On("FindByBookingCode", mock.Anything, "ACME1").Return(enabledCompany(), true, nil)
	customerDao.On("FindByEmail", mock.Anything, mock.Anything, mock.Anything).Return(model.Customer{Id: "customer-1"}, true, nil)
	customerDao.On("Update", mock.Anything, mock.Anything).Return(nil)

	var createdTrip model.Trip
	tripDao.On("Create", mock.Anything, mock.AnythingOfType("model.Trip")).
		Run(func(args mock.Arguments) { createdTrip = args.Get(1).(model.Trip) }).
		Return("trip-4", nil)

	service := NewBookingService(companyDao, customerDao, tripDao, nil)

	request := validRequest()
	request.FlightNumber = ""
	request.JobNumber = ""

	_, err := service.CreateBooking(context.Background(), request)
	assert.NoError(t, err)
	assert.Equal(t, model.NoFlightNumber, createdTrip.FlightNumber)
}

// Two concurrent first-time bookings can both observe "no customer yet"
// and both insert one. The find-or-create is not transactional; this test
// pins down that the duplicate outcome is possible, not that it is
// prevented.
func TestCreateBookingDuplicateCustomerRaceIsPossible(t *testing.T) {
	companyDao := new(MockCompanyDao)
	customerDao := new(MockCustomerDao)
	tripDao := new(MockTripDao)

	companyDao.On("FindByBookingCode", mock.Anything, "ACME1").Return(enabledCompany(), true, nil)
	// Both interleaved lookups run before either insert lands.
	customerDao.On("FindByEmail", mock.Anything, "company-1", "jordan.miles@example.com").Return(model.Customer{}, false, nil)
	customerDao.On("Create", mock.Anything, mock.AnythingOfType("model.Customer")).Return("customer-a", nil).Once()
	customerDao.On("Create", mock.Anything, mock.AnythingOfType("model.Customer")).Return("customer-b", nil).Once()
	tripDao.On("Create", mock.Anything, mock.AnythingOfType("model.Trip")).Return("trip-a", nil).Once()
	tripDao.On("Create", mock.Anything, mock.AnythingOfType("model.Trip")).Return("trip-b", nil).Once()

	service := NewBookingService(companyDao, customerDao, tripDao, nil)

	first, err := service.CreateBooking(context.Background(), validRequest())
	assert.NoError(t, err)
	second, err := service.CreateBooking(context.Background(), validRequest())
	assert.NoError(t, err)

	assert.NotEqual(t, first.CustomerId, second.CustomerId)
	customerDao.AssertNumberOfCalls(t, "Create", 2)
}

func TestCreateBookingTripFailureLeavesCreatedCustomerInPlace(t *testing.T) {
	companyDao := new(MockCompanyDao)
	customerDao := new(MockCustomerDao)
	tripDao := new(MockTripDao)

	companyDao.On("FindByBookingCode", mock.Anything, "ACME1").Return(enabledCompany(), true, nil)
	customerDao.On("FindByEmail", mock.Anything, mock.Anything, mock.Anything).Return(model.Customer{}, false, nil)
	customerDao.On("Create", mock.Anything, mock.Anything).Return("customer-1", nil)
	tripDao.On("Create", mock.Anything, mock.Anything).Return("", errors.New("write rejected"))

	service := NewBookingService(companyDao, customerDao, tripDao, nil)

	_, err := service.CreateBooking(context.Background(), validRequest())
	assert.Error(t, err)

	// The customer write already happened and is not rolled back.
	customerDao.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreateBookingNotifierFailureDoesNotFailTheBooking(t *testing.T) {
	companyDao := new(MockCompanyDao)
	customerDao := new(MockCustomerDao)
	tripDao := new(MockTripDao)
	notifier := new(MockNotifier)

	companyDao.On("FindByBookingCode", mock.Anything, "ACME1").Return(enabledCompany(), true, nil)
	customerDao.On("FindByEmail", mock.Anything, mock.Anything, mock.Anything).Return(model.Customer{Id: "customer-1"}, true, nil)
	customerDao.On("Update", mock.Anything, mock.Anything).Return(nil)
	tripDao.On("Create", mock.Anything, mock.Anything).Return("trip-9", nil)
	notifier.On("NotifyBookingCreated", mock.Anything, "company-1", "trip-9").Return(errors.New("invoke throttled"))

	service := NewBookingService(companyDao, customerDao, tripDao, notifier)

	result, err := service.CreateBooking(context.Background(), validRequest())
	assert.NoError(t, err)
	assert.Equal(t, "trip-9", result.TripId)
	notifier.AssertNumberOfCalls(t, "NotifyBookingCreated", 1)
}
