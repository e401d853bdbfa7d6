package dto

// ========== User 相关 DTO ==========

// UserProfileData 员工资料数据
type UserProfileData struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"fullname"`
	Initials string   `json:"initials"`
	Phone    string   `json:"phone,omitempty"`
	Role     string   `json:"role"`
	Active   bool     `json:"active"`
	Caps     []string `json:"capabilities"`
}

// RosterEntry 花名册条目，供手工录入表单选择员工
type RosterEntry struct {
	ID       string `json:"id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Initials string `json:"initials"`
	Role     string `json:"role"`
}
