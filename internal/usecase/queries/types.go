package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type RoomView struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Capacity int       `json:"capacity"`
	Retired  bool      `json:"retired"`
}

type ReservationView struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	RoomCode  string    `json:"room_code"`
	UserID    uuid.UUID `json:"user_id"`
	UserEmail string    `json:"user_email"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Headcount int       `json:"headcount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReservationListItem struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	RoomCode  string    `json:"room_code"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Headcount int       `json:"headcount"`
	CreatedAt time.Time `json:"created_at"`
}

type SensorReadingView struct {
	ID             uuid.UUID `json:"id"`
	RoomID         uuid.UUID `json:"room_id"`
	Sensor         string    `json:"sensor"`
	Temperature    *float64  `json:"temperature,omitempty"`
	Humidity       *float64  `json:"humidity,omitempty"`
	OccupancyCount *int      `json:"occupancy_count,omitempty"`
	RecordedAt     time.Time `json:"recorded_at"`
}

type AuthorizedUserView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Banned       bool      `json:"banned"`
}

type AdminUserView struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	Banned      bool       `json:"banned"`
	BanExpires  *time.Time `json:"ban_expires,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}
