package request

import (
	"roomsense/internal/usecase/commands"
)

type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role" binding:"required,oneof=user admin"`
}

func (r CreateUserRequest) ToInput() commands.CreateUserInput {
	return commands.CreateUserInput{
		Email:       r.Email,
		DisplayName: r.DisplayName,
		Password:    r.Password,
		Role:        r.Role,
	}
}

type BanUserRequest struct {
	// DurationHours of zero (or omitted) bans indefinitely.
	DurationHours int `json:"duration_hours" binding:"min=0"`
}
