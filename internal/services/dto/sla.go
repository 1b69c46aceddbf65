package dto

import "cleanops_backend/internal/models"

type SlaResult struct {
	Status  models.SlaStatus `json:"status"`
	Reasons []string         `json:"reasons"`
}
