package handler

import "time"

type messageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// --- Auth ---

// tokenRequest accepts both form-encoded and JSON credentials.
type tokenRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type registerRequest struct {
	Username string `json:"username"  validate:"required,max=50"`
	Email    string `json:"email"     validate:"required,email"`
	FullName string `json:"full_name" validate:"max=100"`
	Password string `json:"password"  validate:"required,min=6,max=72"`
}

// --- Users ---

type createUserRequest struct {
	Username string `json:"username"  validate:"required,max=50"`
	Email    string `json:"email"     validate:"required,email"`
	FullName string `json:"full_name" validate:"max=100"`
	Password string `json:"password"  validate:"required,min=6,max=72"`
	Role     string `json:"role"      validate:"omitempty,oneof=admin user"`
	IsActive *bool  `json:"is_active"`
}

type updateUserRequest struct {
	Username *string `json:"username"  validate:"omitempty,min=1,max=50"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Role     *string `json:"role"      validate:"omitempty,oneof=admin user"`
	IsActive *bool   `json:"is_active"`
}

// --- Products ---

// Category is checked by the service so unknown values surface as a field
// error naming the allowed set.
type createProductRequest struct {
	Name          string   `json:"name"           validate:"required,max=200"`
	Description   string   `json:"description"    validate:"max=2000"`
	Price         *float64 `json:"price"          validate:"required,gte=0"`
	Category      string   `json:"category"       validate:"required"`
	InStock       *bool    `json:"in_stock"`
	StockQuantity int      `json:"stock_quantity" validate:"gte=0"`
}

type updateProductRequest struct {
	Name          *string  `json:"name"           validate:"omitempty,min=1,max=200"`
	Description   *string  `json:"description"    validate:"omitempty,max=2000"`
	Price         *float64 `json:"price"          validate:"omitempty,gte=0"`
	Category      *string  `json:"category"`
	InStock       *bool    `json:"in_stock"`
	StockQuantity *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
}

// --- Uploads ---

type fileInfo struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type uploadResponse struct {
	Message  string   `json:"message"`
	FileInfo fileInfo `json:"file_info"`
	FileURL  string   `json:"file_url,omitempty"`
}

type uploadInfoResponse struct {
	MaxFileSizeMB      int64    `json:"max_file_size_mb"`
	AllowedExtensions  []string `json:"allowed_extensions"`
	MaxFilesPerRequest int      `json:"max_files_per_request"`
}
