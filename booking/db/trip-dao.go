package db

import (
	"context"
	"log"

	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/appsync"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/booking/model"
	"github.com/google/uuid"
)

const createTripMutation = `mutation CreateTrip($input: CreateTripInput!) {
  createTrip(input: $input) {
    id
  }
}`

type TripAppSyncDao struct {
	client *appsync.Client
}

func NewTripAppSyncDao(client *appsync.Client) *TripAppSyncDao {
	return &TripAppSyncDao{client: client}
}

func (dao *TripAppSyncDao) Create(ctx context.Context, trip model.Trip) (string, error) {
	if trip.Id == "" {
		trip.Id = uuid.NewString()
	}

	input := map[string]any{
		"id":                 trip.Id,
		"companyId":          trip.CompanyId,
		"pickupDate":         trip.PickupDate,
		"flightNumber":       trip.FlightNumber,
		"pickupLocation":     trip.PickupLocation,
		"dropoffLocation":    trip.DropoffLocation,
		"numberOfPassengers": trip.NumberOfPassengers,
		"status":             trip.Status,
	}
	if trip.CustomerId != "" {
		input["customerId"] = trip.CustomerId
	}
	if trip.Notes != "" {
		input["notes"] = trip.Notes
	}

	var result struct {
		CreateTrip struct {
			Id string `json:"id"`
		} `json:"createTrip"`
	}

	if err := dao.client.Execute(ctx, createTripMutation, map[string]any{"input": input}, &result); err != nil {
		log.Printf("Could not create trip for company %v: %v\n", trip.CompanyId, err)
		return "", err
	}

	return result.CreateTrip.Id, nil
}
