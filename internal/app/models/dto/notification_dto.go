package dto

// BroadcastRequest sends a notification to many users. Nil filters match everyone.
type BroadcastRequest struct {
	Title        string  `json:"title" binding:"required,max=200"`
	Body         string  `json:"body" binding:"required"`
	Link         *string `json:"link"`
	Role         *string `json:"role" binding:"omitempty,user_role"`
	DepartmentID *int64  `json:"departmentId"`
	Email        bool    `json:"email"`
}

// NotificationListResponse is a page of notifications with the unread count
type NotificationListResponse struct {
	PaginatedResponse
	Unread int64 `json:"unread"`
}

// CountResponse carries a single count
type CountResponse struct {
	Count int64 `json:"count"`
}
