package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/appsync"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/booking/db"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/booking/services"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/gateway"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/lambdautils"
)

var requestHandler *gateway.Handler

func init() {
	client, err := appsync.NewClientFromEnv(context.TODO())
	if err != nil {
		log.Fatalf("unable to configure graphql client, %v", err)
	}

	var notifier services.Notifier
	if notifierFunction := os.Getenv("NOTIFIER_FUNCTION"); notifierFunction != "" {
		notifier = lambdautils.NewAsyncNotifier(lambdautils.CreateNewClient(), notifierFunction)
	}

	bookingService := services.NewBookingService(
		db.NewCompanyAppSyncDao(client),
		db.NewCustomerAppSyncDao(client),
		db.NewTripAppSyncDao(client),
		notifier,
	)
	requestHandler = gateway.NewHandler(bookingService)
}

func handler(ctx context.Context, evt json.RawMessage) (events.APIGatewayProxyResponse, error) {
	return requestHandler.Handle(ctx, evt)
}

func main() {
	lambda.Start(handler)
}
