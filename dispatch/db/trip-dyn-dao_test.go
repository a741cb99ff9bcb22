package db

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/booking/model"
)

func TestDecodeTrip(t *testing.T) {
	item := map[string]types.AttributeValue{
		"id":                 &types.AttributeValueMemberS{Value: "trip-1"},
		"companyId":          &types.AttributeValueMemberS{Value: "company-1"},
		"pickupDate":         &types.AttributeValueMemberS{Value: "2024-03-01T09:00"},
		"flightNumber":       &types.AttributeValueMemberS{Value: "UA123"},
		"pickupLocation":     &types.AttributeValueMemberS{Value: "Acme HQ"},
		"dropoffLocation":    &types.AttributeValueMemberS{Value: "SFO Terminal 2"},
		"numberOfPassengers": &types.AttributeValueMemberN{Value: "2"},
		"status":             &types.AttributeValueMemberS{Value: model.TripStatusUnassigned},
		"customerId":         &types.AttributeValueMemberS{Value: "customer-1"},
	}

	trip := decodeTrip(item)

	if trip.Id != "trip-1" || trip.CompanyId != "company-1" {
		t.Fatalf("Keys decoded incorrectly: %+v", trip)
	}
	if trip.NumberOfPassengers != 2 {
		t.Fatalf("Expected 2 passengers, got %v", trip.NumberOfPassengers)
	}
	if trip.Status != model.TripStatusUnassigned {
		t.Fatalf("Unexpected status: %v", trip.Status)
	}
}

func TestDecodeTripToleratesMissingOptionalAttributes(t *testing.T) {
	item := map[string]types.AttributeValue{
		"id":        &types.AttributeValueMemberS{Value: "trip-2"},
		"companyId": &types.AttributeValueMemberS{Value: "company-1"},
		"status":    &types.AttributeValueMemberS{Value: model.TripStatusUnassigned},
	}

	trip := decodeTrip(item)

	if trip.CustomerId != "" || trip.Notes != "" {
		t.Fatalf("Absent attributes must decode to empty values: %+v", trip)
	}
	if trip.NumberOfPassengers != 0 {
		t.Fatalf("Absent passenger count must decode to zero, got %v", trip.NumberOfPassengers)
	}
}
