package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/giftguide/backend/internal/domain"
	"github.com/google/uuid"
)

// ModalServiceConfig holds configuration for the modal service
type ModalServiceConfig struct {
	SessionTTL time.Duration
	Modal      ModalConfig
}

// ModalService keeps modal instances in the session store and routes UI
// events to them
type ModalService struct {
	store      domain.CacheRepository
	cart       domain.CartClient
	publisher  domain.EventPublisher
	decoder    domain.ProductDecoder
	sessionTTL time.Duration
	modalCfg   ModalConfig
}

// NewModalService creates a new modal service with dependencies
func NewModalService(
	store domain.CacheRepository,
	cart domain.CartClient,
	publisher domain.EventPublisher,
	decoder domain.ProductDecoder,
	config ModalServiceConfig,
) *ModalService {
	sessionTTL := config.SessionTTL
	if sessionTTL == 0 {
		sessionTTL = 30 * time.Minute
	}

	return &ModalService{
		store:      store,
		cart:       cart,
		publisher:  publisher,
		decoder:    decoder,
		sessionTTL: sessionTTL,
		modalCfg:   config.Modal,
	}
}

// CloseEvictedModal is a session store eviction hook that ends the session
// of an expired modal
func CloseEvictedModal(key string, value interface{}) {
	if modal, ok := value.(*Modal); ok {
		modal.Close()
		log.Printf("[Modal] evicted %s", key)
	}
}

// CreateModal registers a new closed modal
func (s *ModalService) CreateModal(ctx context.Context) (domain.ModalView, error) {
	modal := NewModal(uuid.NewString(), s.cart, s.publisher, s.modalCfg)
	if err := s.store.Set(ctx, modalKey(modal.ID()), modal, s.sessionTTL); err != nil {
		return domain.ModalView{}, fmt.Errorf("failed to store modal: %w", err)
	}
	return modal.View(), nil
}

// GetModal returns a modal and refreshes its idle timeout
func (s *ModalService) GetModal(ctx context.Context, id string) (*Modal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrModalNotFound
	}

	key := modalKey(id)
	value, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.ErrModalNotFound
		}
		return nil, err
	}

	modal, ok := value.(*Modal)
	if !ok {
		return nil, domain.ErrModalNotFound
	}

	if err := s.store.Set(ctx, key, modal, s.sessionTTL); err != nil {
		log.Printf("[Modal] failed to refresh ttl of %s: %v", id, err)
	}
	return modal, nil
}

// View returns the current view of a modal
func (s *ModalService) View(ctx context.Context, id string) (domain.ModalView, error) {
	modal, err := s.GetModal(ctx, id)
	if err != nil {
		return domain.ModalView{}, err
	}
	return modal.View(), nil
}

// OpenModal decodes a card snapshot and opens it. Invalid snapshots leave
// the modal untouched.
func (s *ModalService) OpenModal(ctx context.Context, id string, raw []byte) (domain.ModalView, error) {
	modal, err := s.GetModal(ctx, id)
	if err != nil {
		return domain.ModalView{}, err
	}

	product, err := s.decoder.DecodeProduct(raw)
	if err != nil {
		return modal.View(), err
	}

	return modal.Open(product), nil
}

// Dispatch routes a UI event to a modal
func (s *ModalService) Dispatch(ctx context.Context, id string, event domain.ModalEvent) (domain.ModalView, error) {
	modal, err := s.GetModal(ctx, id)
	if err != nil {
		return domain.ModalView{}, err
	}
	return modal.Dispatch(event)
}

// Submit starts an add-to-cart request. With wait set it blocks until the
// request settles or ctx is done.
func (s *ModalService) Submit(ctx context.Context, id, cartToken string, wait bool) (domain.ModalView, error) {
	modal, err := s.GetModal(ctx, id)
	if err != nil {
		return domain.ModalView{}, err
	}

	view, err := modal.Submit(cartToken)
	if err != nil || !wait {
		return view, err
	}

	return modal.Await(ctx)
}

// CloseModal closes a modal
func (s *ModalService) CloseModal(ctx context.Context, id string) (domain.ModalView, error) {
	modal, err := s.GetModal(ctx, id)
	if err != nil {
		return domain.ModalView{}, err
	}
	return modal.Close(), nil
}

// DeleteModal closes a modal and removes it from the store
func (s *ModalService) DeleteModal(ctx context.Context, id string) error {
	modal, err := s.GetModal(ctx, id)
	if err != nil {
		return err
	}
	modal.Close()
	return s.store.Delete(ctx, modalKey(id))
}

func modalKey(id string) string {
	return "modal:" + id
}
