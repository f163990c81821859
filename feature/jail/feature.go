package jail

import (
	"dispatch-core/core/broadcast"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	db      *gorm.DB
}

// NewFeature creates a new Jail feature.
func NewFeature(db *gorm.DB, publisher broadcast.Publisher, logger *zap.Logger) *Feature {
	svc := NewService(db, publisher, logger)
	h := NewHandler(svc, logger)
	return &Feature{service: svc, handler: h, db: db}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "jail"
}

// IsEnabled checks if the feature is enabled. Jail requires a database.
func (f *Feature) IsEnabled() bool {
	return f.db != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the jail service to the CLI.
func (f *Feature) Service() *Service {
	return f.service
}
