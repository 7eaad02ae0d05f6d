package configdef

// CategoryDefinition 定义了单个默认分类的所有属性。
type CategoryDefinition struct {
	Name        string
	Slug        string
	Description string
}

// AllCategories 是分类表为空时写入的默认分类，slug 与前端页脚链接保持一致
var AllCategories = []CategoryDefinition{
	{Name: "Fiction", Slug: "fiction", Description: "Novels, short stories and literary fiction"},
	{Name: "Children's Fiction", Slug: "childrens-fiction", Description: "Books for young readers"},
	{Name: "Science", Slug: "science", Description: "Popular science and research"},
	{Name: "History", Slug: "history", Description: "World and regional history"},
	{Name: "Biography & Autobiography", Slug: "biography-autobiography", Description: "Life stories and memoirs"},
	{Name: "Health & Fitness", Slug: "health-fitness", Description: "Wellbeing, nutrition and exercise"},
}
