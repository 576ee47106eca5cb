package dto

type RegisterRequest struct {
	Phone    string `json:"phnumber" validate:"required,numeric,min=10,max=15"`
	Password string `json:"password" validate:"required,max=128"`
}

type RegisterResponse struct {
	Name    string `json:"name"`
	Outcome string `json:"outcome"`
}
