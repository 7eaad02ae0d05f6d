package constant

// 文章状态
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// IsValidPostStatus 判断状态值是否合法
func IsValidPostStatus(status string) bool {
	return status == PostStatusDraft || status == PostStatusPublished
}

// 管理员角色
const (
	RoleAdmin = "admin"
)
