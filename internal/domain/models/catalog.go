package models

type City struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

type JobTag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
