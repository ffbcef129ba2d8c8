package dto

// DepartmentRequest creates or updates a department
type DepartmentRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"Protection"`
	Code string `json:"code" binding:"required,max=20" example:"PROT"`
}
