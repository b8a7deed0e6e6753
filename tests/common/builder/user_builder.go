package builder

import (
	"roomsense/internal/domain/user"
	"roomsense/internal/usecase/shared"

	"github.com/google/uuid"
)

type UserBuilder struct {
	id    uuid.UUID
	email string
	role  user.Role
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		id:    uuid.New(),
		email: "member@example.com",
		role:  user.RoleUser,
	}
}

func (b *UserBuilder) WithID(id uuid.UUID) *UserBuilder {
	b.id = id
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) AsAdmin() *UserBuilder {
	b.role = user.RoleAdmin
	return b
}

func (b *UserBuilder) BuildSnapshot() shared.UserSnapshot {
	return shared.UserSnapshot{
		ID:    b.id,
		Email: b.email,
		Role:  b.role,
	}
}
