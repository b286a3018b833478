package user

type User struct {
	ID        int    `json:"userId"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	FullName  string `json:"fullName"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
