package rbac

type AssignRoleRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   string `json:"role" binding:"required,oneof=owner finance verifier viewer admin"`
}

type UserRoleResponse struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
