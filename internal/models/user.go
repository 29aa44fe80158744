// internal/models/user.go
package models

type User struct {
	UserID    int64    `json:"userId"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Bio       string   `json:"bio"`
	Location  string   `json:"location,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Skills    []string `json:"skills"`
}
