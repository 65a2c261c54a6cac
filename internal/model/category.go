package model

type Category struct {
	CategoryID int64  `json:"catid"`
	Name       string `json:"name"`
}
