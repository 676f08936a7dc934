// Package clients manages the salon's client records and spreadsheet imports.
package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/repository"
)

var (
	ErrValidation     = errors.New("invalid client")
	ErrClientNotFound = errors.New("client not found")
	ErrDuplicatePhone = errors.New("a client with this phone already exists")
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Store is the persistence the client service needs.
type Store interface {
	InsertClient(ctx context.Context, c models.Client) error
	GetClient(ctx context.Context, id string) (models.Client, error)
	FindClientByPhone(ctx context.Context, phone string) (models.Client, error)
	ListClients(ctx context.Context, search string, limit int) ([]models.Client, error)
}

// Service implements client CRUD.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires the client service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Create adds a client. Phone numbers are unique.
func (s *Service) Create(ctx context.Context, req models.ClientRequest) (models.Client, error) {
	c := models.Client{
		ID:        uuid.NewString(),
		FullName:  strings.TrimSpace(req.FullName),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		Gender:    strings.TrimSpace(req.Gender),
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: s.now(),
	}
	if c.FullName == "" {
		return models.Client{}, fmt.Errorf("%w: Client name is required", ErrValidation)
	}
	if c.Phone == "" {
		return models.Client{}, fmt.Errorf("%w: Phone number is required", ErrValidation)
	}

	if err := s.insertUnique(ctx, c); err != nil {
		return models.Client{}, err
	}
	s.logger.Info("client created", zap.String("client_id", c.ID))
	return c, nil
}

func (s *Service) insertUnique(ctx context.Context, c models.Client) error {
	_, err := s.store.FindClientByPhone(ctx, c.Phone)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrDuplicatePhone, c.Phone)
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("find client by phone: %w", err)
	}
	if err := s.store.InsertClient(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("%w: %s", ErrDuplicatePhone, c.Phone)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// Get loads one client.
func (s *Service) Get(ctx context.Context, id string) (models.Client, error) {
	c, err := s.store.GetClient(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c, fmt.Errorf("%w: %s", ErrClientNotFound, id)
	}
	return c, err
}

// List searches clients by name or phone.
func (s *Service) List(ctx context.Context, search string, limit int) ([]models.Client, error) {
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	return s.store.ListClients(ctx, strings.TrimSpace(search), limit)
}
