package dto

// CreateUserRequest alta de un usuario dentro de la organización del actor.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=60,alphanum"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,oneof=super_admin admin floor_staff"`
	Language string `json:"language" validate:"omitempty,bcp47_language_tag"`
}

// UpdateUserRequest actualización parcial de un usuario (sin password).
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Role     *string `json:"role" validate:"omitempty,oneof=super_admin admin floor_staff"`
	Language *string `json:"language" validate:"omitempty,bcp47_language_tag"`
}

// SetUserStatusRequest activa o desactiva la cuenta. La desactivación surte
// efecto en el siguiente request del afectado (chequeo vivo de la puerta).
type SetUserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
