package request

type SetNickname struct {
	Nickname string `json:"nickname" validate:"required,max=50"`
}
