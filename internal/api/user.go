package api

// swagger:model api.User
type User struct {
	ID          int    `json:"id" example:"1"`
	Email       string `json:"email" example:"alice@example.com"`
	FullName    string `json:"full_name,omitempty" example:"Alice Liddell"`
	IsSuperuser bool   `json:"is_superuser" example:"false"`
	IsActive    bool   `json:"is_active" example:"true"`
}

// swagger:model api.UsersPublic
type UsersPublic struct {
	Data  []User `json:"data"`
	Count int    `json:"count" example:"1"`
}
