package core

// User represents the signed-in user as seen outside the store
//
// This is the "identity" - who someone is. It never carries the password digest.
type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	AvatarURL *string  `json:"avatarUrl,omitempty"`
	Provider  Provider `json:"provider,omitempty"`
}

// Clone returns a deep copy so published values are never shared for writing.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.AvatarURL != nil {
		avatar := *u.AvatarURL
		c.AvatarURL = &avatar
	}
	return &c
}
