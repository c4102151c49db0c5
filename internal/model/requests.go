package model

// Request bodies for the JSON API. Field names match the frontend's wire
// format.

type SendOtpRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type VerifyOtpRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Otp         string `json:"otp"`
}

type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// LoginRequest accepts either email+password or phoneNumber+otp.
type LoginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	Otp         string `json:"otp"`
}

type GoogleAuthRequest struct {
	Credential string `json:"credential"`
}

type FacebookAuthRequest struct {
	AccessToken string `json:"accessToken"`
}

// CompleteSignupRequest finishes a social signup. Only TempUser.LinkToken is
// trusted; the identity claim itself is loaded server-side.
type CompleteSignupRequest struct {
	TempUser         PublicTempUser `json:"tempUser"`
	PhoneNumber      string         `json:"phoneNumber"`
	VerificationCode string         `json:"verificationCode"`
}

type ForgotPasswordSendRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type ForgotPasswordVerifyRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Otp         string `json:"otp"`
}

type ResetPasswordRequest struct {
	UserID      int64  `json:"userId"`
	NewPassword string `json:"newPassword"`
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	AvatarURL *string `json:"avatarUrl"`
	Bio       *string `json:"bio"`
	Grade     *string `json:"grade"`
	Stream    *string `json:"stream"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type BlogPostInput struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Body      string `json:"body"`
	CoverURL  string `json:"coverUrl"`
	Author    string `json:"author"`
	Published bool   `json:"published"`
}

type CourseInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	PriceInPaise int64  `json:"priceInPaise"`
	Published    bool   `json:"published"`
}

type CreateOrderRequest struct {
	EnrollmentID int64 `json:"enrollmentId"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpayOrderId"`
	PaymentID string `json:"razorpayPaymentId"`
	Signature string `json:"razorpaySignature"`
}
