package http

import (
	"github.com/goodspace/backend/internal/domain"
	"github.com/goodspace/backend/internal/infrastructure/smtp"
	"github.com/goodspace/backend/internal/infrastructure/token"
)

// Deps holds the infrastructure dependencies the router wires into services.
type Deps struct {
	Store         domain.Store
	Mailer        smtp.Mailer
	TokenProvider *token.Provider
}
