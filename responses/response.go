package responses

import "github.com/aryanwebd35/food-factory/models"

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type CartResponse struct {
	Success  bool            `json:"success"`
	CartData models.CartData `json:"cartData"`
}

type SessionResponse struct {
	Success    bool   `json:"success"`
	SessionURL string `json:"session_url"`
}

type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

func Fail(message string) Response {
	return Response{Success: false, Message: message}
}

func OK(message string) Response {
	return Response{Success: true, Message: message}
}
