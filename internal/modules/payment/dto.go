package payment

type RoomCheckoutRequest struct {
	BookingID int64 `json:"booking_id" binding:"required,gt=0"`
}

type ActivityCheckoutRequest struct {
	ActivityBookingID int64 `json:"activity_booking_id" binding:"required,gt=0"`
}

type CheckoutSession struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}
