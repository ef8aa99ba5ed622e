package api

// UserCreate 為建立使用者時送往 users API 的欄位；確認密碼不在其中。
// swagger:model api.UserCreate
type UserCreate struct {
	Email       string `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`
	FullName    string `json:"full_name,omitempty" form:"full_name" example:"Alice Liddell"`
	Password    string `json:"password" form:"password" validate:"required,min=8" example:"Secret123!"`
	IsSuperuser bool   `json:"is_superuser" form:"is_superuser" example:"false"`
	IsActive    bool   `json:"is_active" form:"is_active" example:"true"`
}
