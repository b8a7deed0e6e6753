package response

import (
	"time"

	"roomsense/internal/usecase/commands"
	"roomsense/internal/usecase/queries"

	"github.com/google/uuid"
)

type AdminUserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	Banned      bool       `json:"banned"`
	BanExpires  *time.Time `json:"ban_expires,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

func FromAdminUserView(v *queries.AdminUserView) *AdminUserResponse {
	return &AdminUserResponse{
		ID:          v.ID,
		Email:       v.Email,
		DisplayName: v.DisplayName,
		Role:        v.Role,
		Banned:      v.Banned,
		BanExpires:  v.BanExpires,
		LastLogin:   v.LastLogin,
	}
}

func FromAdminUserViews(views []*queries.AdminUserView) []*AdminUserResponse {
	out := make([]*AdminUserResponse, 0, len(views))
	for _, v := range views {
		out = append(out, FromAdminUserView(v))
	}
	return out
}

type BanResponse struct {
	CancelledReservations int  `json:"cancelled_reservations"`
	AlreadyBanned         bool `json:"already_banned"`
}

func FromBanResult(r *commands.BanResult) *BanResponse {
	return &BanResponse{
		CancelledReservations: r.CancelledCount,
		AlreadyBanned:         r.AlreadyBanned,
	}
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}
