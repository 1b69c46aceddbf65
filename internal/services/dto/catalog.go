package dto

type CreateLocationRequest struct {
	Name      string   `json:"name" binding:"required"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
}

type CreateTemplateItem struct {
	Text     string `json:"text" binding:"required"`
	Required bool   `json:"required"`
}

type CreateTemplateRequest struct {
	Name  string               `json:"name" binding:"required"`
	Items []CreateTemplateItem `json:"items" binding:"required,min=1,dive"`
}
