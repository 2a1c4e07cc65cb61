package dto

import "github.com/ahmetcoskunkizilkaya/focus-block/internal/models"

type AddURLRequest struct {
	URL string `json:"url"`
}

type URLListResponse struct {
	URLs []models.BlockedURL `json:"urls"`
}
