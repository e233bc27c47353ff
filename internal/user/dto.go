package user

type EntryDTO struct {
	Name   string `json:"name" validate:"required,max=100"`
	Email  string `json:"email" validate:"required,max=150,simple_email"`
	Age    int    `json:"age" validate:"min=13,max=100"`
	Gender Gender `json:"gender" validate:"required,oneof=Female Male Other"`
}

type EntryResponse struct {
	User    *User  `json:"user"`
	Token   string `json:"token"`
	Created bool   `json:"created"`
}
