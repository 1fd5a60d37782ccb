package auth

// SessionData represents the authenticated session context for a request
type SessionData struct {
	UserID     uint   `json:"user_id"`
	ProfileID  uint   `json:"profile_id"`
	Username   string `json:"username"`
	IsGymAdmin bool   `json:"is_gym_admin"`
}
