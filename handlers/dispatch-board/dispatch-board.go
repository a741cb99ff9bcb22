package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/booking/model"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/dispatch/db"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/dynamoutils"
)

var tripDao *db.TripDynDao

func init() {
	tripTable := os.Getenv("TRIP_TABLE")
	if tripTable == "" {
		log.Fatalf("TRIP_TABLE environment variable is not set")
	}
	tripDao = db.NewTripDynDao(dynamoutils.CreateAwsClient(), tripTable)
}

type boardRequest struct {
	CompanyId string `json:"companyId"`
}

type boardResponse struct {
	Trips []model.Trip `json:"trips"`
}

// handler serves the internal dispatch board: the unassigned trips of one
// company, ordered by pickup date. Invocation is IAM-authorized; this
// function is never reachable from the public booking form.
func handler(ctx context.Context, evt json.RawMessage) (boardResponse, error) {
	request := &boardRequest{}
	err := json.Unmarshal(evt, request)

	if err != nil {
		return boardResponse{}, err
	}
	if request.CompanyId == "" {
		return boardResponse{}, errors.New("companyId is required")
	}

	trips, err := tripDao.ListUnassignedTrips(ctx, request.CompanyId)
	if err != nil {
		return boardResponse{}, err
	}

	return boardResponse{Trips: trips}, nil
}

func main() {
	lambda.Start(handler)
}
