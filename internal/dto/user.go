package dto

import "github.com/opsledger/ops_ledger_app/internal/core/domain"

// CreateUserRequest registers a new operator account.
type CreateUserRequest struct {
	Username        string `json:"username" binding:"required,alphanum"`
	Password        string `json:"password" binding:"required,min=6"`
	Name            string `json:"name" binding:"required"`
	Role            string `json:"role" binding:"required,oneof=ADMIN USER"`
	CanViewAllSales bool   `json:"canViewAllSales"`
}

// UpdateUserRequest edits an existing account. Nil fields are untouched.
type UpdateUserRequest struct {
	Name            *string `json:"name"`
	Password        *string `json:"password" binding:"omitempty,min=6"`
	Role            *string `json:"role" binding:"omitempty,oneof=ADMIN USER"`
	CanViewAllSales *bool   `json:"canViewAllSales"`
}

// UserResponse is the wire shape of one account, hash stripped.
type UserResponse struct {
	Username        string `json:"username"`
	Name            string `json:"name"`
	Role            string `json:"role"`
	CanViewAllSales bool   `json:"canViewAllSales"`
}

// ToUserResponse converts a user to its wire shape.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		Username:        u.Username,
		Name:            u.Name,
		Role:            string(u.Role),
		CanViewAllSales: u.CanViewAllSales,
	}
}

// ToListUserResponse converts a slice of users.
func ToListUserResponse(users []domain.User) []UserResponse {
	res := make([]UserResponse, len(users))
	for i := range users {
		res[i] = ToUserResponse(&users[i])
	}
	return res
}
