package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ByUserIDRequest identifies a profile through its external user id.
type ByUserIDRequest struct {
	UserID string `uri:"user_id" binding:"required"`
}
