package model

// UserRole 员工角色枚举
type UserRole string

const (
	RoleEmployee   UserRole = "employee"   // 普通员工，只能操作自己的打卡
	RoleSupervisor UserRole = "supervisor" // 主管，可查看全员并审核
	RoleAdmin      UserRole = "admin"      // 管理员，含手工录入与删改
)

// Capability 服务端权限点，角色映射在下方 roleCapabilities
type Capability string

const (
	CapViewAll     Capability = "view_all"
	CapVerify      Capability = "verify"
	CapManualEntry Capability = "manual_entry"
	CapEdit        Capability = "edit"
	CapDelete      Capability = "delete"
)

var roleCapabilities = map[UserRole][]Capability{
	RoleEmployee:   {},
	RoleSupervisor: {CapViewAll, CapVerify},
	RoleAdmin:      {CapViewAll, CapVerify, CapManualEntry, CapEdit, CapDelete},
}

// HasCapability 判断角色是否拥有某权限点
func (r UserRole) HasCapability(cap Capability) bool {
	for _, c := range roleCapabilities[r] {
		if c == cap {
			return true
		}
	}
	return false
}

// Capabilities 返回角色的全部权限点
func (r UserRole) Capabilities() []Capability {
	return roleCapabilities[r]
}

// User 员工账号模型

type User struct {
	BaseModel
	PublicID     int64    `gorm:"uniqueIndex;not null" json:"public_id"`
	Email        string   `gorm:"uniqueIndex;type:varchar(128);not null" json:"email"`
	PasswordHash string   `gorm:"type:varchar(128);not null" json:"-"` // bcrypt，不对外暴露
	FirstName    string   `gorm:"type:varchar(64);not null" json:"first_name"`
	LastName     string   `gorm:"type:varchar(64);not null" json:"last_name"`
	Phone        string   `gorm:"type:varchar(32);not null;default:''" json:"phone"`
	Role         UserRole `gorm:"type:varchar(16);not null;default:'employee';index:idx_users_role" json:"role"`
	Active       bool     `gorm:"not null;default:true" json:"active"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// FullName 列表展示用姓名
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Initials 头像占位用首字母，如 "JD"
func (u *User) Initials() string {
	initials := ""
	if u.FirstName != "" {
		initials += string([]rune(u.FirstName)[0:1])
	}
	if u.LastName != "" {
		initials += string([]rune(u.LastName)[0:1])
	}
	return initials
}
