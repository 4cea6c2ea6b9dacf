package domain

import (
	"strings"
	"time"
)

// Role decides which price a viewer sees.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleReseller Role = "reseller"
	RoleAdmin    Role = "admin"
)

// ParseRole maps stored role names to a Role, defaulting to customer.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleReseller:
		return RoleReseller
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleCustomer
	}
}

// Address is a postal address saved on a profile or copied onto an order.
type Address struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	IsDefault    bool   `json:"isDefault"`
}

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name,omitempty"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	DateOfBirth  string    `json:"dateOfBirth,omitempty"`
	Role         Role      `json:"role"`
	Addresses    []Address `json:"addresses,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DisplayName prefers the explicit name and falls back to first and last name.
func (u User) DisplayName() string {
	if n := strings.TrimSpace(u.Name); n != "" {
		return n
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ProfileComplete reports whether the user has filled every field needed to check out without retyping.
func (u User) ProfileComplete() bool {
	return strings.TrimSpace(u.FirstName) != "" &&
		strings.TrimSpace(u.LastName) != "" &&
		strings.TrimSpace(u.Phone) != "" &&
		strings.TrimSpace(u.DateOfBirth) != "" &&
		len(u.Addresses) > 0
}

// Viewer is the caller a request is evaluated for.
type Viewer struct {
	ID    string
	Name  string
	Email string
	Phone string
	Role  Role
	// GuestID is set for anonymous sessions.
	GuestID string
}

// ViewerFromUser builds a signed-in viewer.
func ViewerFromUser(u User) Viewer {
	return Viewer{
		ID:    u.ID,
		Name:  u.DisplayName(),
		Email: u.Email,
		Phone: u.Phone,
		Role:  ParseRole(string(u.Role)),
	}
}

// GuestViewer builds an anonymous viewer priced as a customer.
func GuestViewer(guestID string) Viewer {
	return Viewer{Role: RoleCustomer, GuestID: guestID}
}

// IsGuest reports whether the viewer has no account.
func (v Viewer) IsGuest() bool {
	return v.ID == ""
}

// OwnerKey identifies the cart that belongs to the viewer.
func (v Viewer) OwnerKey() string {
	if v.ID != "" {
		return v.ID
	}
	if v.GuestID != "" {
		return "anon:" + v.GuestID
	}
	return ""
}

// CustomerID is the id recorded on orders; guests are recorded as "guest".
func (v Viewer) CustomerID() string {
	if v.ID == "" {
		return "guest"
	}
	return v.ID
}
