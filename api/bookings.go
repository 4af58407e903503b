package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dkuznetsov91/busbooking/internal/domain"
	"github.com/dkuznetsov91/busbooking/internal/normalize"
	"github.com/dkuznetsov91/busbooking/internal/repository"
	"github.com/dkuznetsov91/busbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type checkInResponse struct {
	Eligible              bool   `json:"eligible"`
	State                 string `json:"state"`
	Message               string `json:"message"`
	MinutesUntilDeparture int    `json:"minutes_until_departure,omitempty"`
	MinutesUntilOpen      int    `json:"minutes_until_open,omitempty"`
}

type cancellationResponse struct {
	Eligible                 bool    `json:"eligible"`
	Message                  string  `json:"message"`
	RequiresOperatorApproval bool    `json:"requires_operator_approval"`
	RefundPercent            int     `json:"refund_percent"`
	RefundTierLabel          string  `json:"refund_tier_label,omitempty"`
	HoursUntilDeparture      float64 `json:"hours_until_departure,omitempty"`
}

type bookingViewResponse struct {
	PNR           string               `json:"pnr"`
	Status        string               `json:"status"`
	PaymentStatus string               `json:"payment_status"`
	TravelDate    string               `json:"travel_date,omitempty"`
	DepartureTime string               `json:"departure_time,omitempty"`
	ArrivalTime   string               `json:"arrival_time,omitempty"`
	BusNumber     string               `json:"bus_number,omitempty"`
	RouteFrom     string               `json:"route_from,omitempty"`
	RouteTo       string               `json:"route_to,omitempty"`
	TotalAmount   string               `json:"total_amount"`
	CheckIn       checkInResponse      `json:"check_in"`
	Cancellation  cancellationResponse `json:"cancellation"`
}

type cancellationRequestBody struct {
	Reason string `json:"reason"`
}

type cancellationRequestResponse struct {
	ID            string `json:"id"`
	PNR           string `json:"pnr"`
	Status        string `json:"status"`
	RefundPercent int    `json:"refund_percent"`
	RefundAmount  string `json:"refund_amount"`
	FeeAmount     string `json:"fee_amount"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("/import", h.importBooking)
	router.GET("/:pnr", h.get)
	router.POST("/:pnr/checkin", h.checkIn)
	router.POST("/:pnr/cancellation", h.requestCancellation)
}

// RegisterOperator mounts the operator-side cancellation decisions.
func (h *BookingHandler) RegisterOperator(router *gin.RouterGroup) {
	router.POST("/:id/approve", h.approveCancellation)
	router.POST("/:id/reject", h.rejectCancellation)
}

func toBookingViewResponse(v booking.BookingView) bookingViewResponse {
	resp := bookingViewResponse{
		PNR:           v.Booking.PNR,
		Status:        string(v.DisplayStatus),
		PaymentStatus: string(v.Booking.PaymentStatus),
		DepartureTime: v.Booking.DepartureTime,
		ArrivalTime:   v.Booking.ArrivalTime,
		BusNumber:     v.Booking.BusNumber,
		RouteFrom:     v.Booking.RouteFrom,
		RouteTo:       v.Booking.RouteTo,
		TotalAmount:   v.Booking.TotalAmount.StringFixed(2),
		CheckIn: checkInResponse{
			Eligible:              v.CheckIn.Eligible,
			State:                 string(v.CheckIn.State),
			Message:               v.CheckIn.Message,
			MinutesUntilDeparture: int(v.CheckIn.TimeUntilDeparture / time.Minute),
			MinutesUntilOpen:      int(v.CheckIn.TimeUntilOpen / time.Minute),
		},
		Cancellation: cancellationResponse{
			Eligible:                 v.Cancellation.Eligible,
			Message:                  v.Cancellation.Message,
			RequiresOperatorApproval: v.Cancellation.RequiresOperatorApproval,
			RefundPercent:            v.Cancellation.RefundPercent,
			RefundTierLabel:          v.Cancellation.RefundTierLabel,
			HoursUntilDeparture:      v.Cancellation.HoursUntilDeparture,
		},
	}
	if !v.Booking.TravelDate.IsZero() {
		resp.TravelDate = v.Booking.TravelDate.Format("2006-01-02")
	}
	return resp
}

func toCancellationRequestResponse(req *domain.CancellationRequest) cancellationRequestResponse {
	return cancellationRequestResponse{
		ID:            req.ID,
		PNR:           req.PNR,
		Status:        string(req.Status),
		RefundPercent: req.RefundPercent,
		RefundAmount:  req.RefundAmount.StringFixed(2),
		FeeAmount:     req.FeeAmount.StringFixed(2),
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, repository.ErrCancellationPending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrRequestNotPending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrPolicyViolation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidRecord):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *BookingHandler) list(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	views, err := h.service.ListBookings(c.Request.Context(), email)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]bookingViewResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, toBookingViewResponse(v))
	}
	c.JSON(http.StatusOK, resp)
}

// importBooking ingests a booking snapshot from the upstream booking
// service. The payload is the upstream's own loosely-typed record; field
// aliasing is resolved before the snapshot is stored.
func (h *BookingHandler) importBooking(c *gin.Context) {
	var raw normalize.RawBooking
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view, err := h.service.ImportBooking(c.Request.Context(), raw)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingViewResponse(*view))
}

func (h *BookingHandler) get(c *gin.Context) {
	view, err := h.service.GetBooking(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingViewResponse(*view))
}

func (h *BookingHandler) checkIn(c *gin.Context) {
	updated, err := h.service.CheckIn(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pnr":    updated.PNR,
		"status": string(updated.Status),
	})
}

func (h *BookingHandler) requestCancellation(c *gin.Context) {
	var body cancellationRequestBody
	// Body is optional; reason may be empty.
	_ = c.ShouldBindJSON(&body)

	req, err := h.service.RequestCancellation(c.Request.Context(), c.Param("pnr"), body.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCancellationRequestResponse(req))
}

func (h *BookingHandler) approveCancellation(c *gin.Context) {
	req, err := h.service.ApproveCancellation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCancellationRequestResponse(req))
}

func (h *BookingHandler) rejectCancellation(c *gin.Context) {
	req, err := h.service.RejectCancellation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCancellationRequestResponse(req))
}
