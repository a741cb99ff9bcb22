package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/booking/model"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/dispatch/db"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/dynamoutils"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/lambdautils"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/utils"
)

var tripDao *db.TripDynDao

func init() {
	tripTable := os.Getenv("TRIP_TABLE")
	if tripTable == "" {
		log.Fatalf("TRIP_TABLE environment variable is not set")
	}
	tripDao = db.NewTripDynDao(dynamoutils.CreateAwsClient(), tripTable)
}

// handler receives the async notification payload emitted after a
// successful booking and logs the dispatch-ready notification record.
// The trip read is retried: the invocation is fire-and-forget, nobody is
// upstream to propagate a transient failure to.
func handler(ctx context.Context, evt json.RawMessage) error {
	notification := &lambdautils.BookingNotification{}
	err := json.Unmarshal(evt, notification)

	if err != nil {
		return err
	}

	retrier := utils.NewRetrier[model.Trip](utils.NewExponentialBackoffStrategy(5, 100*time.Millisecond, 0.1, 2*time.Second))
	trip, err := retrier.DoWithReturn(func() (model.Trip, error) {
		trip, found, lookupErr := tripDao.GetTrip(ctx, notification.TripId)
		if lookupErr != nil {
			return model.Trip{}, lookupErr
		}
		if !found {
			// The read model lags the data API slightly after a
			// write; treat not-yet-visible as transient.
			return model.Trip{}, fmt.Errorf("trip %v not visible yet", notification.TripId)
		}
		return trip, nil
	})

	if err != nil {
		log.Printf("Giving up on notification %v: %v\n", notification.RequestId, err)
		return err
	}

	log.Printf("New booking for company %v: trip %v, pickup %v at %v -> %v, %v passenger(s)\n",
		trip.CompanyId, trip.Id, trip.PickupDate, trip.PickupLocation, trip.DropoffLocation, trip.NumberOfPassengers)

	return nil
}

func main() {
	lambda.Start(handler)
}
