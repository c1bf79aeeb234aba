package models

type Province struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type District struct {
	ID         int64  `json:"id"`
	ProvinceID int64  `json:"provinceId"`
	Name       string `json:"name"`
}

type Industry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type IndustryInput struct {
	Name string `json:"name" validate:"required,max=120"`
}
