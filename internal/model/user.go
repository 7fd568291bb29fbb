package model

// User is the signed-in account. It is also the record stored in the local cache.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
