package lambdautils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/google/uuid"
)

func CreateNewClient() *lambda.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithClientLogMode(aws.LogRetries),
	)
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	client := lambda.NewFromConfig(cfg)
	return client
}

// BookingNotification is the payload the public booking function hands to
// the notifier function after a trip has been created.
type BookingNotification struct {
	RequestId string `json:"requestId"`
	CompanyId string `json:"companyId"`
	TripId    string `json:"tripId"`
}

func InvokeNotifierAsync(ctx context.Context, client *lambda.Client, functionName string, notification BookingNotification) error {
	notificationJson, err := json.Marshal(notification)

	if err != nil {
		return err
	}
	_, err = client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(functionName),
		InvocationType: "Event",
		Payload:        notificationJson,
	})

	return err
}

// AsyncNotifier adapts the fire-and-forget invocation to the booking
// service's Notifier interface.
type AsyncNotifier struct {
	client       *lambda.Client
	functionName string
}

func NewAsyncNotifier(client *lambda.Client, functionName string) *AsyncNotifier {
	return &AsyncNotifier{client: client, functionName: functionName}
}

func (n *AsyncNotifier) NotifyBookingCreated(ctx context.Context, companyId string, tripId string) error {
	err := InvokeNotifierAsync(ctx, n.client, n.functionName, BookingNotification{
		RequestId: uuid.NewString(),
		CompanyId: companyId,
		TripId:    tripId,
	})
	if err != nil {
		return fmt.Errorf("notifier invocation failed: %w", err)
	}
	return nil
}
