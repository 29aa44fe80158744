// internal/models/application.go
package models

type Application struct {
	ApplicationID int64  `json:"applicationId"`
	JobID         int64  `json:"jobId"`
	UserID        int64  `json:"userId"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
}
