package service

// QRCodeService generates QR code images.
type QRCodeService interface {
	// GenerateTrackingQR renders a PNG QR code pointing at the public
	// tracking page for the given order.
	GenerateTrackingQR(orderID string) ([]byte, error)
}
