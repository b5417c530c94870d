package entity

// Account is a local user linked to a time-tracking API key.
//
// The ID column holds the normalized presence name (see service.NormalizeKey),
// so a participant named "Ana Lee" joins on the row whose ID is "AnaLee".
type Account struct {
	ID     string `gorm:"primaryKey;size:191"`
	Email  string `gorm:"index;size:191"`
	APIKey string `gorm:"column:api_key"`
}

func (Account) TableName() string {
	return "users"
}
