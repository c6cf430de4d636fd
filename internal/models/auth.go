package models

// LoginRequest carries the voucher credentials issued after payment.
type LoginRequest struct {
	PIN    string `json:"pin" validate:"required"`
	Serial string `json:"serial" validate:"required"`
}

// UserInfo is the applicant identity returned at login.
type UserInfo struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// LoginResponse is the payload of POST /auth/login.
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}
