package models

import "time"

// ErrorLog records a failure caught at the outermost request layer.
type ErrorLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ErrorMessage string    `gorm:"type:text;not null" json:"error_message"`
	ErrorType    string    `gorm:"size:255" json:"error_type"`
	StatusCode   int       `json:"status_code"`
	Timestamp    time.Time `gorm:"index" json:"timestamp"`
}

// All lists every model for migrations.
func All() []interface{} {
	return []interface{}{&Account{}, &Category{}, &Post{}, &ErrorLog{}}
}
