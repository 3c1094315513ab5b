// Package docs builds the OpenAPI document served at /swagger.
package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

// VehicleResponse represents one vehicle stay
type VehicleResponse struct {
	ID         string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Plate      string `json:"plate" example:"ABC123"`
	Class      string `json:"vehicle_class" example:"CAR"`
	OwnerName  string `json:"owner_name" example:"Carlos Pérez"`
	OwnerEmail string `json:"owner_email" example:"carlos@example.com"`
	SpaceID    string `json:"space_id,omitempty" example:"9a1f0c3e-0000-0000-0000-000000000000"`
	Status     string `json:"status" example:"ACTIVE"`
	EntryTime  string `json:"entry_time" example:"2025-07-04T08:00:00-05:00"`
}

// VehicleListResponse wraps the active vehicle listing
type VehicleListResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
	Count    int               `json:"count" example:"12"`
}

// EntryRequestBody registers a vehicle entering the lot
type EntryRequestBody struct {
	Plate      string `json:"plate" example:"ABC123"`
	Class      string `json:"vehicle_class" example:"CAR"`
	OwnerName  string `json:"owner_name" example:"Carlos Pérez"`
	OwnerEmail string `json:"owner_email,omitempty" example:"carlos@example.com"`
	SpaceID    string `json:"space_id,omitempty"`
}

// RateResponse represents one billing rule
type RateResponse struct {
	ID           string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name         string `json:"name" example:"Carro por hora"`
	VehicleClass string `json:"vehicle_class" example:"CAR"`
	Scheme       string `json:"billing_scheme" example:"PER_HOUR"`
	UnitAmount   string `json:"unit_amount" example:"3000"`
	MinimumHours string `json:"minimum_hours,omitempty" example:"1"`
	IsActive     bool   `json:"is_active" example:"true"`
}

// RateListResponse wraps a rate listing
type RateListResponse struct {
	Rates []RateResponse `json:"rates"`
	Count int            `json:"count" example:"4"`
}

// SpaceResponse represents one grid slot
type SpaceResponse struct {
	ID    string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Code  string `json:"code" example:"A-01"`
	Kind  string `json:"kind" example:"COMPACT"`
	State string `json:"state" example:"AVAILABLE"`
	Row   int    `json:"row" example:"0"`
	Col   int    `json:"col" example:"0"`
}

// SpaceListResponse wraps the grid listing
type SpaceListResponse struct {
	Spaces []SpaceResponse `json:"spaces"`
	Count  int             `json:"count" example:"50"`
}

// QuoteResponse is the priced but unsettled outcome of a stay
type QuoteResponse struct {
	ExitTime      string `json:"exit_time" example:"2025-07-04T10:30:00-05:00"`
	DurationHours string `json:"duration_hours" example:"2.5"`
	BilledHours   string `json:"billed_hours" example:"3"`
	Subtotal      string `json:"subtotal" example:"9000"`
	Discount      string `json:"discount" example:"900"`
	Total         string `json:"total" example:"8100"`
}

// PaymentResponse represents one settled payment
type PaymentResponse struct {
	ID            string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ReceiptNumber string `json:"receipt_number" example:"REC-20250704-00042"`
	Method        string `json:"method" example:"CASH"`
	Status        string `json:"status" example:"PAID"`
	Total         string `json:"total" example:"8100"`
	PaidAt        string `json:"paid_at" example:"2025-07-04T10:30:00-05:00"`
}

// PaymentListResponse wraps a payment listing with paging totals
type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Count    int               `json:"count" example:"50"`
	Total    int               `json:"total" example:"1240"`
}

// RecognitionResponse is the plate OCR outcome
type RecognitionResponse struct {
	Plate      string  `json:"plate" example:"ABC123"`
	Confidence float64 `json:"confidence" example:"0.93"`
	Class      string  `json:"vehicle_class,omitempty" example:"CAR"`
}

// ExitAuthorizationResponse is the barrier decision for a plate
type ExitAuthorizationResponse struct {
	Plate      string `json:"plate" example:"ABC123"`
	Authorized bool   `json:"authorized" example:"false"`
	Reason     string `json:"reason,omitempty" example:"payment pending"`
}

// OccupancyResponse counts grid slots by state
type OccupancyResponse struct {
	Total       int `json:"total" example:"50"`
	Available   int `json:"available" example:"32"`
	Occupied    int `json:"occupied" example:"15"`
	Reserved    int `json:"reserved" example:"2"`
	Maintenance int `json:"maintenance" example:"1"`
}

// RevenueDayResponse is one day of settled revenue
type RevenueDayResponse struct {
	Day   string `json:"day" example:"2025-07-04"`
	Count int    `json:"count" example:"42"`
	Total string `json:"total" example:"378000"`
}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Parqueadero API",
		Version:     "v1.0.0",
		Description: "Parking lot management backend: vehicle entry/exit, rate catalog, fee computation, plate OCR and receipts",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	internalError := response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error")
	validationError := response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity")

	endpoints := []*endpoint.EndPoint{
		// Vehicles
		endpoint.New(
			endpoint.POST,
			"/vehicles/entry",
			endpoint.WithTags("Vehicles"),
			endpoint.WithSummary("Register a vehicle entering the lot"),
			endpoint.WithDescription("Opens a stay: normalizes the plate, claims a parking space (the requested one or the first available) and records the entry time"),
			endpoint.WithBody(EntryRequestBody{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(VehicleResponse{}, "201", "Vehicle registered"),
			}),
			endpoint.WithErrors([]response.Response{
				validationError,
				response.New(ErrorResponse{Code: "VEHICLE_ALREADY_PARKED", Message: "This vehicle is already inside the parking lot"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "NO_SPACE_AVAILABLE", Message: "No available parking space"}, "404", "Not Found"),
				internalError,
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/vehicles/exit/{plate}",
			endpoint.WithTags("Vehicles"),
			endpoint.WithSummary("Settle and close the stay for a plate"),
			endpoint.WithDescription("Charges the stay at the cheapest applicable rate, records the payment, marks the vehicle exited and frees its space, atomically"),
			endpoint.WithParams(
				parameter.StrParam("plate", parameter.Path, parameter.WithDescription("License plate, any formatting")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(PaymentResponse{}, "200", "Stay settled"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VEHICLE_NOT_FOUND", Message: "No active vehicle found for this plate"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "NO_APPLICABLE_RATE", Message: "No active rate matches this vehicle class"}, "422", "Unprocessable Entity"),
				internalError,
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/vehicles/active",
			endpoint.WithTags("Vehicles"),
			endpoint.WithSummary("List vehicles currently inside"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(VehicleListResponse{}, "200", "Active vehicles"),
			}),
			endpoint.WithErrors([]response.Response{internalError}),
		),
		endpoint.New(
			endpoint.GET,
			"/vehicles/search/{plate}",
			endpoint.WithTags("Vehicles"),
			endpoint.WithSummary("Find the active stay for a plate"),
			endpoint.WithParams(
				parameter.StrParam("plate", parameter.Path, parameter.WithDescription("License plate, any formatting")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(VehicleResponse{}, "200", "Active stay"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VEHICLE_NOT_FOUND", Message: "No active vehicle found for this plate"}, "404", "Not Found"),
				internalError,
			}),
		),

		// Rates
		endpoint.New(
			endpoint.POST,
			"/rates",
			endpoint.WithTags("Rates"),
			endpoint.WithSummary("Create a rate"),
			endpoint.WithBody(RateResponse{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RateResponse{}, "201", "Rate created"),
			}),
			endpoint.WithErrors([]response.Response{validationError, internalError}),
		),
		endpoint.New(
			endpoint.GET,
			"/rates",
			endpoint.WithTags("Rates"),
			endpoint.WithSummary("List rates"),
			endpoint.WithParams(
				parameter.StrParam("class", parameter.Query, parameter.WithDescription("Filter by vehicle class")),
				parameter.StrParam("active", parameter.Query, parameter.WithDescription("Filter by active flag (true/false)")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RateListResponse{}, "200", "Rates"),
			}),
			endpoint.WithErrors([]response.Response{internalError}),
		),
		endpoint.New(
			endpoint.GET,
			"/rates/active/{class}",
			endpoint.WithTags("Rates"),
			endpoint.WithSummary("List rates selectable right now for a class"),
			endpoint.WithParams(
				parameter.StrParam("class", parameter.Path, parameter.WithDescription("CAR, MOTORCYCLE, PICKUP_VAN or TRUCK")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RateListResponse{}, "200", "Applicable rates"),
			}),
			endpoint.WithErrors([]response.Response{validationError, internalError}),
		),
		endpoint.New(
			endpoint.GET,
			"/rates/{id}",
			endpoint.WithTags("Rates"),
			endpoint.WithSummary("Get a rate"),
			endpoint.WithParams(parameter.StrParam("id", parameter.Path)),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RateResponse{}, "200", "Rate"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "RATE_NOT_FOUND", Message: "Rate not found"}, "404", "Not Found"),
				internalError,
			}),
		),
		endpoint.New(
			endpoint.PUT,
			"/rates/{id}",
			endpoint.WithTags("Rates"),
			endpoint.WithSummary("Update a rate"),
			endpoint.WithDescription("Replaces the mutable fields. Settled payments keep their own rate snapshot and are not affected"),
			endpoint.WithParams(parameter.StrParam("id", parameter.Path)),
			endpoint.WithBody(RateResponse{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RateResponse{}, "200", "Rate updated"),
			}),
			endpoint.WithErrors([]response.Response{validationError, internalError}),
		),
		endpoint.New(
			endpoint.DELETE,
			"/rates/{id}",
			endpoint.WithTags("Rates"),
			endpoint.WithSummary("Deactivate a rate"),
			endpoint.WithDescription("Soft delete: the rate stops being selectable but payment history keeps resolving"),
			endpoint.WithParams(parameter.StrParam("id", parameter.Path)),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Rate deactivated"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "RATE_NOT_FOUND", Message: "Rate not found"}, "404", "Not Found"),
				internalError,
			}),
		),

		// Spaces
		endpoint.New(
			endpoint.POST,
			"/spaces",
			endpoint.WithTags("Spaces"),
			endpoint.WithSummary("Create a parking space"),
			endpoint.WithBody(SpaceResponse{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SpaceResponse{}, "201", "Space created"),
			}),
			endpoint.WithErrors([]response.Response{
				validationError,
				response.New(ErrorResponse{Code: "SPACE_CODE_EXISTS", Message: "A parking space with this code already exists"}, "409", "Conflict"),
				internalError,
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/spaces",
			endpoint.WithTags("Spaces"),
			endpoint.WithSummary("List the grid"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SpaceListResponse{}, "200", "Spaces in row/col order"),
			}),
			endpoint.WithErrors([]response.Response{internalError}),
		),
		endpoint.New(
			endpoint.POST,
			"/spaces/auto-assign",
			endpoint.WithTags("Spaces"),
			endpoint.WithSummary("Suggest the next free space"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SpaceResponse{}, "200", "First available space"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_SPACE_AVAILABLE", Message: "No available parking space"}, "404", "Not Found"),
				internalError,
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/spaces/{id}/assign",
			endpoint.WithTags("Spaces"),
			endpoint.WithSummary("Place a vehicle on a space"),
			endpoint.WithParams(parameter.StrParam("id", parameter.Path)),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SpaceResponse{}, "200", "Space occupied"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "SPACE_NOT_AVAILABLE", Message: "Parking space is not available for assignment"}, "409", "Conflict"),
				internalError,
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/spaces/{id}/release",
			endpoint.WithTags("Spaces"),
			endpoint.WithSummary("Force-free a space"),
			endpoint.WithParams(parameter.StrParam("id", parameter.Path)),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Space released"),
			}),
			endpoint.WithErrors([]response.Response{internalError}),
		),

		// Payments
		endpoint.New(
			endpoint.POST,
			"/payments/quote",
			endpoint.WithTags("Payments"),
			endpoint.WithSummary("Price a stay without closing it"),
			endpoint.WithDescription("Computes duration, selects the cheapest applicable rate and applies the discount. Settling immediately afterwards charges exactly this amount"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(QuoteResponse{}, "200", "Quote"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VEHICLE_NOT_FOUND", Message: "No active vehicle found for this plate"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "NO_APPLICABLE_RATE", Message: "No active rate matches this vehicle class"}, "422", "Unprocessable Entity"),
				internalError,
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/payments",
			endpoint.WithTags("Payments"),
			endpoint.WithSummary("Settle a stay"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(PaymentResponse{}, "201", "Payment recorded, stay closed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_PAYMENT_METHOD", Message: "Payment method must be CASH, CARD or TRANSFER"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "VEHICLE_NOT_FOUND", Message: "No active vehicle found for this plate"}, "404", "Not Found"),
				internalError,
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/payments",
			endpoint.WithTags("Payments"),
			endpoint.WithSummary("List payments"),
			endpoint.WithParams(
				parameter.StrParam("status", parameter.Query, parameter.WithDescription("PAID or REFUNDED")),
				parameter.StrParam("method", parameter.Query, parameter.WithDescription("CASH, CARD or TRANSFER")),
				parameter.StrParam("from", parameter.Query, parameter.WithDescription("Start date (YYYY-MM-DD)")),
				parameter.StrParam("to", parameter.Query, parameter.WithDescription("End date (YYYY-MM-DD)")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Page size (1-500, default 50)")),
				parameter.IntParam("offset", parameter.Query, parameter.WithDescription("Page offset")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(PaymentListResponse{}, "200", "Payments"),
			}),
			endpoint.WithErrors([]response.Response{validationError, internalError}),
		),
		endpoint.New(
			endpoint.GET,
			"/payments/{id}",
			endpoint.WithTags("Payments"),
			endpoint.WithSummary("Get a payment"),
			endpoint.WithParams(parameter.StrParam("id", parameter.Path)),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(PaymentResponse{}, "200", "Payment"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "PAYMENT_NOT_FOUND", Message: "Payment not found"}, "404", "Not Found"),
				internalError,
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/payments/{id}/refund",
			endpoint.WithTags("Payments"),
			endpoint.WithSummary("Refund a payment"),
			endpoint.WithDescription("Marks the payment refunded with a mandatory reason. The stay itself stays closed"),
			endpoint.WithParams(parameter.StrParam("id", parameter.Path)),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(PaymentResponse{}, "200", "Payment refunded"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "PAYMENT_ALREADY_REFUNDED", Message: "This payment was already refunded"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "PAYMENT_NOT_FOUND", Message: "Payment not found"}, "404", "Not Found"),
				internalError,
			}),
		),

		// Plates
		endpoint.New(
			endpoint.POST,
			"/plates/recognize",
			endpoint.WithTags("Plates"),
			endpoint.WithSummary("Run plate OCR on a camera frame"),
			endpoint.WithDescription("Recognizes the plate, rejects low-confidence reads and looks the plate up among active stays"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RecognitionResponse{}, "200", "Plate recognized"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_PLATE_DETECTED", Message: "No license plate detected in the image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "LOW_PLATE_CONFIDENCE", Message: "Plate recognition confidence too low, please retry"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Invalid image format or corrupted file"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Too many recognition requests, slow down"}, "429", "Too Many Requests"),
				internalError,
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/plates/validate-exit",
			endpoint.WithTags("Plates"),
			endpoint.WithSummary("Barrier-gate exit check"),
			endpoint.WithDescription("A plate may leave only once its stay has been settled"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ExitAuthorizationResponse{}, "200", "Decision"),
			}),
			endpoint.WithErrors([]response.Response{validationError, internalError}),
		),

		// Reports
		endpoint.New(
			endpoint.GET,
			"/reports/revenue",
			endpoint.WithTags("Reports"),
			endpoint.WithSummary("Settled revenue per day"),
			endpoint.WithParams(
				parameter.StrParam("from", parameter.Query, parameter.WithDescription("Start date (YYYY-MM-DD), default 30 days ago")),
				parameter.StrParam("to", parameter.Query, parameter.WithDescription("End date (YYYY-MM-DD), default today")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RevenueDayResponse{}, "200", "Revenue per day"),
			}),
			endpoint.WithErrors([]response.Response{validationError, internalError}),
		),
		endpoint.New(
			endpoint.GET,
			"/reports/occupancy",
			endpoint.WithTags("Reports"),
			endpoint.WithSummary("Grid slot counts by state"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(OccupancyResponse{}, "200", "Occupancy summary"),
			}),
			endpoint.WithErrors([]response.Response{internalError}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
