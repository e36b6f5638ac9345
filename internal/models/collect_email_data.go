package models

type CollectEmailData struct {
	Email string `json:"email"`
}
