package main

import (
	"room-booking/cmd/bootstrap"
)

// @title           reservation-service
// @version         1.0
// @description     Room availability and reservations; consumes room lifecycle events.

// @BasePath  /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	bootstrap.Run("reservation-service", bootstrap.ReservationServiceModule)
}
