package models

// User được tạo ở lần đăng nhập đầu tiên, khoá chính là sub do Cognito cấp.
type User struct {
	CognitoID string `gorm:"primaryKey;size:255" json:"cognito_id"`
	Username  string `gorm:"size:255;not null" json:"username"`
	Email     string `gorm:"size:255;not null;index" json:"email"`
	Tasks     []Task `gorm:"foreignKey:UserID;references:CognitoID;constraint:OnDelete:CASCADE" json:"-"`
}
