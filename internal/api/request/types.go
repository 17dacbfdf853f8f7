package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PlaceRequest is the request body for placing a letter
type PlaceRequest struct {
	Row    *int   `json:"row"`
	Col    *int   `json:"col"`
	Letter string `json:"letter"`
}

// PositionRequest is the request body for removing or selecting a cell
type PositionRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// CreateSessionRequest is the optional request body for starting a session
type CreateSessionRequest struct {
	Seeds []SeedRequest `json:"seeds"`
}

// SeedRequest is a fixed letter to place on the new board
type SeedRequest struct {
	Row    *int   `json:"row"`
	Col    *int   `json:"col"`
	Letter string `json:"letter"`
}
