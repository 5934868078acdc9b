package request

type AddComment struct {
	Content string `json:"content" validate:"required,max=2000"`
}
