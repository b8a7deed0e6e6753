package components

import (
	"roomsense/internal/handler"
	"roomsense/internal/handler/api"
	"roomsense/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewReservationHandler,
		api.NewRoomHandler,
		api.NewAdminHandler,
		api.NewSensorHandler,
		middleware.NewAuthMiddleware,
		middleware.NewRateLimiter,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	reservation *api.ReservationHandler,
	room *api.RoomHandler,
	admin *api.AdminHandler,
	sensor *api.SensorHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:        auth,
		Reservation: reservation,
		Room:        room,
		Admin:       admin,
		Sensor:      sensor,
	}
}
