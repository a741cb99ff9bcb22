package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/booking/model"
	"github.com/electronictaz-netizen/aircrew-transportation-app-sub002/booking/services"
)

const (
	actionGetCompany    = "getCompany"
	actionCreateBooking = "createBooking"
)

// BookingBackend is what the adapter needs from the service layer.
type BookingBackend interface {
	ResolveCompany(ctx context.Context, bookingCode string) (model.PublicCompany, error)
	CreateBooking(ctx context.Context, request model.BookingRequest) (model.BookingResult, error)
}

// Handler normalizes the two invocation shapes the function receives
// (direct invocation and API-Gateway proxy events) into one request,
// dispatches on the action field and produces a uniform response. CORS
// headers are deliberately never attached here, the hosting platform owns
// them and duplicates would break browsers.
type Handler struct {
	backend BookingBackend
}

func NewHandler(backend BookingBackend) *Handler {
	return &Handler{backend: backend}
}

type getCompanyRequest struct {
	Code string `json:"code"`
}

type companyResponse struct {
	Success bool                `json:"success"`
	Company model.PublicCompany `json:"company"`
}

type bookingResponse struct {
	Success    bool   `json:"success"`
	BookingId  string `json:"bookingId"`
	CustomerId string `json:"customerId,omitempty"`
	Message    string `json:"message"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
}

func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (response events.APIGatewayProxyResponse, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Printf("Recovered from panic while handling request: %v\n", recovered)
			response = jsonResponse(http.StatusInternalServerError, errorResponse{
				Error:   "Internal server error",
				Message: "The request could not be processed",
				Type:    "panic",
			})
			err = nil
		}
	}()

	payload, shortCircuit := normalizeEvent(event)
	if shortCircuit != nil {
		return *shortCircuit, nil
	}

	return h.dispatch(ctx, payload), nil
}

// normalizeEvent extracts the action payload from either invocation
// shape. The second return value is non-nil when the event needs no
// dispatch at all (gateway OPTIONS preflight).
func normalizeEvent(event json.RawMessage) ([]byte, *events.APIGatewayProxyResponse) {
	var gatewayEvent events.APIGatewayProxyRequest
	if err := json.Unmarshal(event, &gatewayEvent); err == nil && gatewayEvent.HTTPMethod != "" {
		if gatewayEvent.HTTPMethod == http.MethodOptions {
			// Preflight is answered by the platform; nothing to do.
			response := jsonResponse(http.StatusOK, map[string]any{})
			return nil, &response
		}

		body := []byte(gatewayEvent.Body)
		if gatewayEvent.IsBase64Encoded {
			if decoded, decodeErr := base64.StdEncoding.DecodeString(gatewayEvent.Body); decodeErr == nil {
				body = decoded
			}
		}

		if json.Valid(body) && len(body) > 0 {
			return body, nil
		}

		// Malformed or absent body: fall back to the query string
		// rather than failing outright.
		fallback, marshalErr := json.Marshal(gatewayEvent.QueryStringParameters)
		if marshalErr != nil {
			return []byte("{}"), nil
		}
		return fallback, nil
	}

	// Direct invocation: the event is the payload itself.
	return event, nil
}

func (h *Handler) dispatch(ctx context.Context, payload []byte) events.APIGatewayProxyResponse {
	var probe struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return jsonResponse(http.StatusBadRequest, errorResponse{Error: "Malformed request body"})
	}

	switch probe.Action {
	case actionGetCompany:
		return h.handleGetCompany(ctx, payload)
	case actionCreateBooking:
		return h.handleCreateBooking(ctx, payload)
	default:
		return jsonResponse(http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("Unknown action %q", probe.Action),
		})
	}
}

func (h *Handler) handleGetCompany(ctx context.Context, payload []byte) events.APIGatewayProxyResponse {
	var request getCompanyRequest
	if err := json.Unmarshal(payload, &request); err != nil {
		return jsonResponse(http.StatusBadRequest, errorResponse{Error: "Malformed request body"})
	}

	company, err := h.backend.ResolveCompany(ctx, request.Code)
	if err != nil {
		return errorToResponse(err)
	}

	return jsonResponse(http.StatusOK, companyResponse{Success: true, Company: company})
}

func (h *Handler) handleCreateBooking(ctx context.Context, payload []byte) events.APIGatewayProxyResponse {
	var request model.BookingRequest
	if err := json.Unmarshal(payload, &request); err != nil {
		return jsonResponse(http.StatusBadRequest, errorResponse{Error: "Malformed request body"})
	}

	result, err := h.backend.CreateBooking(ctx, request)
	if err != nil {
		return errorToResponse(err)
	}

	return jsonResponse(http.StatusOK, bookingResponse{
		Success:    true,
		BookingId:  result.TripId,
		CustomerId: result.CustomerId,
		Message:    "Booking received",
	})
}

// errorToResponse maps the service-layer error taxonomy onto status
// codes: validation problems are client errors, an unresolved tenant is
// not-found, everything else is a server error with a safe message plus
// the error's type name for diagnostics.
func errorToResponse(err error) events.APIGatewayProxyResponse {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return jsonResponse(http.StatusBadRequest, errorResponse{Error: validationErr.Error()})
	}

	if errors.Is(err, services.ErrCompanyNotFound) {
		return jsonResponse(http.StatusNotFound, errorResponse{Error: services.ErrCompanyNotFound.Error()})
	}

	log.Printf("Request failed: %v\n", err)
	return jsonResponse(http.StatusInternalServerError, errorResponse{
		Error:   "Internal server error",
		Message: "The request could not be processed",
		Type:    errorTypeName(err),
	})
}

func errorTypeName(err error) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
}

func jsonResponse(statusCode int, body any) events.APIGatewayProxyResponse {
	serialized, err := json.Marshal(body)
	if err != nil {
		serialized = []byte(`{"error":"Internal server error"}`)
		statusCode = http.StatusInternalServerError
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(serialized),
	}
}
