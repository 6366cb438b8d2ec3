package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required" example:"ada@example.com"`
	Password string `json:"password" form:"password" binding:"required" example:"s3cret!"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"36000"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  *UserResponse `json:"user"`
}

// SignupRequest is the multipart signup form. The optional profilePhoto file is read
// separately by the controller.
type SignupRequest struct {
	FirstName string  `form:"firstName" binding:"required,max=50"`
	LastName  string  `form:"lastName" binding:"required,max=50"`
	Email     string  `form:"email" binding:"required,clubemail"`
	Password  string  `form:"password" binding:"required,min=6"`
	Phone     *string `form:"phone" binding:"omitempty,phone"`
	Bio       *string `form:"bio" binding:"omitempty,max=500"`
	Apartment *string `form:"apartment" binding:"omitempty,max=100"`
	Street    *string `form:"street" binding:"omitempty,max=100"`
	City      *string `form:"city" binding:"omitempty,max=50"`
	State     *string `form:"state" binding:"omitempty,max=50"`
	Zipcode   *string `form:"zipcode" binding:"omitempty,max=10"`
	Country   *string `form:"country" binding:"omitempty,max=50"`
	Birthday  *string `form:"birthday" binding:"omitempty,datetime=2006-01-02"`
	Role      *string `form:"role" binding:"omitempty,oneof=STUDENT CLUB_ADMIN SUPER_ADMIN"`
}
