package dto

type RegisterDTO struct {
	Username  string `json:"username" validate:"required,min=1,max=64"`
	Email     string `json:"email" validate:"required,email,max=120"`
	Password  string `json:"password" validate:"required"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

type LoginDTO struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type ResetPasswordRequestDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordDTO struct {
	Password  string `json:"password" validate:"required"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

type TokenDTO struct {
	Token string `json:"token"`
}
