package user

import "time"

// User is an account of the storefront. Password holds the bcrypt hash and
// is blanked before a user leaves the service.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Password    string    `json:"password,omitempty"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

func sanitizeUser(u User) User {
	u.Password = ""
	return u
}
