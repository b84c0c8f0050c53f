package models

// Account is a registered user record, keyed in the store by its phone number.
type Account struct {
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Phone          string   `json:"phone"`
	HashedPassword string   `json:"hashedPassword,omitempty"`
	TosAgreement   bool     `json:"tosAgreement"`
	Checks         []string `json:"checks,omitempty"`
}
