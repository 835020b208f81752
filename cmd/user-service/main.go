package main

import (
	"room-booking/cmd/bootstrap"
)

// @title           user-service
// @version         1.0
// @description     Registration, login and role-gated views of the room booking system.

// @BasePath  /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	bootstrap.Run("user-service", bootstrap.UserServiceModule)
}
