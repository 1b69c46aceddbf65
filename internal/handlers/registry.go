package handlers

type AppHandlers struct {
	AuthHandler    *AuthHandler
	CatalogHandler *CatalogHandler
	JobHandler     *JobHandler
	ProofHandler   *ProofHandler
	BillingHandler *BillingHandler
	UserHandler    *UserHandler
}
