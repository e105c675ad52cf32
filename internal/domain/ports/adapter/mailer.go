package adapter

// Mailer delivers transactional mail. Only OTP delivery needs it today.
type Mailer interface {
	SendOTP(to, code string) error
}
