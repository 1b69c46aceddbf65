package services

import (
	"cleanops_backend/internal/email"
	"cleanops_backend/internal/repositories"
	"cleanops_backend/internal/storage"

	"gorm.io/gorm"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	AuthService    AuthService
	CatalogService CatalogService
	JobService     JobService
	ProofService   ProofService
	SlaService     SlaService
	BillingService BillingService
	UserService    UserService
	EmailService   email.Provider
}

// NewServiceContainer wires repositories and services over one DB handle.
func NewServiceContainer(db *gorm.DB, blobs storage.Storage, emailProvider email.Provider) *ServiceContainer {
	companyRepo := repositories.NewCompanyRepository(db)
	userRepo := repositories.NewUserRepository(db)
	locationRepo := repositories.NewLocationRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	proofRepo := repositories.NewProofRepository(db)

	billing := NewBillingService(companyRepo)

	return &ServiceContainer{
		AuthService:    NewAuthService(userRepo),
		CatalogService: NewCatalogService(locationRepo, proofRepo),
		JobService:     NewJobService(db, jobRepo, proofRepo, userRepo, locationRepo, billing),
		ProofService:   NewProofService(db, jobRepo, proofRepo, locationRepo, blobs),
		SlaService:     NewSlaService(jobRepo, proofRepo),
		BillingService: billing,
		UserService:    NewUserService(userRepo, billing),
		EmailService:   emailProvider,
	}
}
