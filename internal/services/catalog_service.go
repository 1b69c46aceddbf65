package services

import (
	"context"

	"cleanops_backend/internal/models"
	"cleanops_backend/internal/repositories"
	"cleanops_backend/internal/services/dto"
)

// CatalogService manages the company's reference data: cleaning
// locations and the checklist templates jobs are snapshotted from.
type CatalogService interface {
	CreateLocation(ctx context.Context, companyID string, req *dto.CreateLocationRequest) (*models.Location, error)
	ListLocations(ctx context.Context, companyID string) ([]models.Location, error)

	CreateTemplate(ctx context.Context, companyID string, req *dto.CreateTemplateRequest) (*models.ChecklistTemplate, error)
	GetTemplate(ctx context.Context, id string) (*models.ChecklistTemplate, error)
}

type catalogService struct {
	locationRepo repositories.LocationRepository
	proofRepo    repositories.ProofRepository
}

func NewCatalogService(locationRepo repositories.LocationRepository, proofRepo repositories.ProofRepository) CatalogService {
	return &catalogService{
		locationRepo: locationRepo,
		proofRepo:    proofRepo,
	}
}

func (s *catalogService) CreateLocation(ctx context.Context, companyID string, req *dto.CreateLocationRequest) (*models.Location, error) {
	location := &models.Location{
		CompanyID: companyID,
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *catalogService) ListLocations(ctx context.Context, companyID string) ([]models.Location, error) {
	return s.locationRepo.FindByCompany(ctx, companyID)
}

func (s *catalogService) CreateTemplate(ctx context.Context, companyID string, req *dto.CreateTemplateRequest) (*models.ChecklistTemplate, error) {
	template := &models.ChecklistTemplate{
		CompanyID: companyID,
		Name:      req.Name,
	}
	for i, item := range req.Items {
		template.Items = append(template.Items, models.ChecklistTemplateItem{
			Position: i + 1,
			Text:     item.Text,
			Required: item.Required,
		})
	}
	if err := s.proofRepo.CreateTemplate(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *catalogService) GetTemplate(ctx context.Context, id string) (*models.ChecklistTemplate, error) {
	return s.proofRepo.FindTemplate(ctx, id)
}
