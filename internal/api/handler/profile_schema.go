package handler

// --- Request types ---

type profileRequest struct {
	Name     string `json:"name" validate:"max=100"`
	Email    string `json:"email" validate:"max=255"`
	Password string `json:"password" validate:"max=72"`
	Address  string `json:"address" validate:"max=255"`
	Role     string `json:"role" validate:"max=50"`
}

type simpleProfileRequest struct {
	Name  string `json:"name" validate:"max=100"`
	Email string `json:"email" validate:"max=255"`
}

// --- Response types ---

type imageResponse struct {
	FileName    string `json:"fileName"`
	Extension   string `json:"extension"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Checksum    string `json:"checksum"`
	URL         string `json:"url"`
}

type profileResponse struct {
	ID      int64          `json:"id"`
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Address string         `json:"address,omitempty"`
	Role    string         `json:"role,omitempty"`
	Image   *imageResponse `json:"image,omitempty"`
}

type simpleProfileResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type pageResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}
