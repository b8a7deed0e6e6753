package response

import (
	"roomsense/internal/usecase/commands"
	"roomsense/internal/usecase/queries"
)

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
	Banned       bool   `json:"banned"`
}

func FromLoginResult(r *commands.LoginResult) *LoginResponse {
	return &LoginResponse{
		AccessToken:  r.Tokens.AccessToken,
		RefreshToken: r.Tokens.RefreshToken,
		UserID:       r.UserID.String(),
		Role:         string(r.Role),
		Banned:       r.Banned,
	}
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func FromTokenPair(p *commands.TokenPair) *TokenPairResponse {
	return &TokenPairResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
	}
}

type CurrentUserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Banned      bool   `json:"banned"`
}

func FromAuthorizedUser(v *queries.AuthorizedUserView) *CurrentUserResponse {
	return &CurrentUserResponse{
		ID:          v.ID.String(),
		Email:       v.Email,
		DisplayName: v.DisplayName,
		Role:        v.Role,
		Banned:      v.Banned,
	}
}
