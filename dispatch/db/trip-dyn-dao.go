package db

import (
	"context"
	"log"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/booking/model"
)

const byCompanyIndex = "byCompany"

// TripDynDao reads the trip table the managed data API persists into.
// Writes always go through the signed API; this DAO exists for the
// internal dispatch board and the notifier, which are IAM-authorized and
// can read the table directly.
type TripDynDao struct {
	client    *dynamodb.Client
	tableName string
}

func NewTripDynDao(client *dynamodb.Client, tableName string) *TripDynDao {
	return &TripDynDao{client: client, tableName: tableName}
}

func (dao *TripDynDao) GetTrip(ctx context.Context, tripId string) (model.Trip, bool, error) {
	response, err := dao.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(dao.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: tripId},
		},
	})

	if err != nil {
		log.Printf("Could not read trip %v: %v\n", tripId, err)
		return model.Trip{}, false, err
	}

	if len(response.Item) == 0 {
		return model.Trip{}, false, nil
	}

	return decodeTrip(response.Item), true, nil
}

// ListUnassignedTrips returns a company's unassigned trips ordered by
// pickup date, straight from the byCompany index.
func (dao *TripDynDao) ListUnassignedTrips(ctx context.Context, companyId string) ([]model.Trip, error) {
	var trips []model.Trip
	var lastKey map[string]types.AttributeValue

	for {
		response, err := dao.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(dao.tableName),
			IndexName:              aws.String(byCompanyIndex),
			KeyConditionExpression: aws.String("companyId = :companyId"),
			FilterExpression:       aws.String("#status = :status"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":companyId": &types.AttributeValueMemberS{Value: companyId},
				":status":    &types.AttributeValueMemberS{Value: model.TripStatusUnassigned},
			},
			ExclusiveStartKey: lastKey,
		})

		if err != nil {
			log.Printf("Could not list unassigned trips for company %v: %v\n", companyId, err)
			return nil, err
		}

		for _, item := range response.Items {
			trips = append(trips, decodeTrip(item))
		}

		lastKey = response.LastEvaluatedKey
		if len(lastKey) == 0 {
			break
		}
	}

	return trips, nil
}

func decodeTrip(item map[string]types.AttributeValue) model.Trip {
	return model.Trip{
		Id:                 stringAttribute(item, "id"),
		CompanyId:          stringAttribute(item, "companyId"),
		PickupDate:         stringAttribute(item, "pickupDate"),
		FlightNumber:       stringAttribute(item, "flightNumber"),
		PickupLocation:     stringAttribute(item, "pickupLocation"),
		DropoffLocation:    stringAttribute(item, "dropoffLocation"),
		NumberOfPassengers: numberAttribute(item, "numberOfPassengers"),
		Status:             stringAttribute(item, "status"),
		CustomerId:         stringAttribute(item, "customerId"),
		Notes:              stringAttribute(item, "notes"),
	}
}

func stringAttribute(item map[string]types.AttributeValue, name string) string {
	attribute, present := item[name].(*types.AttributeValueMemberS)
	if !present {
		return ""
	}
	return attribute.Value
}

func numberAttribute(item map[string]types.AttributeValue, name string) int {
	attribute, present := item[name].(*types.AttributeValueMemberN)
	if !present {
		return 0
	}

	value, err := strconv.Atoi(attribute.Value)
	if err != nil {
		return 0
	}
	return value
}
