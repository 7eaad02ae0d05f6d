package model

// Banner 是首页轮播图，对应 banner_images 表
type Banner struct {
	ID        int64
	Title     string
	Subtitle  string
	ImageURL  string
	LinkURL   string
	SortOrder int
	IsActive  bool
}

// BannerView 定义了轮播图的 API 响应结构
type BannerView struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	ImageURL  string `json:"image_url"`
	LinkURL   string `json:"link_url"`
	SortOrder int    `json:"sort_order"`
}

func (b *Banner) ToView() *BannerView {
	return &BannerView{
		ID:        b.ID,
		Title:     b.Title,
		Subtitle:  b.Subtitle,
		ImageURL:  b.ImageURL,
		LinkURL:   b.LinkURL,
		SortOrder: b.SortOrder,
	}
}
