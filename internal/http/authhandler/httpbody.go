package authhandler

type LoginBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type GuestBody struct {
	Username string `json:"username" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
