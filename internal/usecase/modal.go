package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/giftguide/backend/internal/domain"
	"github.com/google/uuid"
)

// ModalConfig holds configuration for modal instances
type ModalConfig struct {
	BonusVariantID  int64
	AddedCloseDelay time.Duration
	PublishTimeout  time.Duration
	Money           *MoneyFormatter
}

// Modal is one product modal. It owns at most one session at a time; a
// session starts when a product is opened and ends on close or when another
// product replaces it. Ending a session cancels its in-flight submission.
type Modal struct {
	id        string
	cart      domain.CartClient
	publisher domain.EventPublisher
	cfg       ModalConfig

	mu      sync.Mutex
	state   domain.ModalState
	session *modalSession
}

type modalSession struct {
	id       string
	product  *domain.Product
	controls []domain.OptionControl
	display  domain.Display
	errMsg   string

	cancel     context.CancelFunc
	settled    chan struct{}
	closeTimer *time.Timer
	addedItems []domain.LineItem
}

type modalHandler func(m *Modal, event domain.ModalEvent) (domain.ModalView, error)

// modalHandlers is the dispatch table from UI events to transitions
var modalHandlers = map[domain.ModalEventType]modalHandler{
	domain.EventOpen: func(m *Modal, e domain.ModalEvent) (domain.ModalView, error) {
		if e.Product == nil {
			return m.View(), fmt.Errorf("%w: open requires a product", domain.ErrInvalidRequest)
		}
		return m.Open(e.Product), nil
	},
	domain.EventSelect: func(m *Modal, e domain.ModalEvent) (domain.ModalView, error) {
		return m.Select(e.Index, e.Value)
	},
	domain.EventSubmit: func(m *Modal, e domain.ModalEvent) (domain.ModalView, error) {
		return m.Submit(e.CartToken)
	},
	domain.EventClose: func(m *Modal, _ domain.ModalEvent) (domain.ModalView, error) {
		return m.Close(), nil
	},
	domain.EventOverlayClick: func(m *Modal, _ domain.ModalEvent) (domain.ModalView, error) {
		return m.Close(), nil
	},
	domain.EventKeyDown: func(m *Modal, e domain.ModalEvent) (domain.ModalView, error) {
		return m.KeyDown(e.Key), nil
	},
}

// NewModal creates a closed modal
func NewModal(id string, cart domain.CartClient, publisher domain.EventPublisher, config ModalConfig) *Modal {
	if config.AddedCloseDelay <= 0 {
		config.AddedCloseDelay = time.Second
	}
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = 5 * time.Second
	}
	if config.Money == nil {
		config.Money = DefaultMoneyFormatter()
	}

	return &Modal{
		id:        id,
		cart:      cart,
		publisher: publisher,
		cfg:       config,
		state:     domain.ModalClosed,
	}
}

// ID returns the modal identifier
func (m *Modal) ID() string {
	return m.id
}

// State returns the current lifecycle state
func (m *Modal) State() domain.ModalState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// View returns a snapshot of the modal
func (m *Modal) View() domain.ModalView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

// Dispatch applies a UI event
func (m *Modal) Dispatch(event domain.ModalEvent) (domain.ModalView, error) {
	handler, ok := modalHandlers[event.Type]
	if !ok {
		return m.View(), fmt.Errorf("%w: unknown event type %q", domain.ErrInvalidRequest, event.Type)
	}
	return handler(m, event)
}

// Open shows a product, replacing any previous session
func (m *Modal) Open(product *domain.Product) domain.ModalView {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.endSessionLocked()

	s := &modalSession{
		id:      uuid.NewString(),
		product: product,
		display: domain.Display{ImageURL: product.FeaturedImage},
	}

	if product.HasOptionControls() {
		s.controls = make([]domain.OptionControl, 0, len(product.Options))
		for i, option := range product.Options {
			s.controls = append(s.controls, domain.OptionControl{
				Index:    i,
				Name:     option.Name,
				Values:   option.Values,
				Selected: option.Values[0],
			})
		}
	}

	m.session = s
	m.state = domain.ModalOpen
	m.resolveLocked()

	log.Printf("[Modal] %s opened %q (session %s)", m.id, product.Title, s.id)
	return m.viewLocked()
}

// Select changes the chosen value of one option and re-resolves the variant
func (m *Modal) Select(index int, value string) (domain.ModalView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != domain.ModalOpen {
		return m.viewLocked(), fmt.Errorf("%w: cannot select while %s", domain.ErrInvalidTransition, m.state)
	}

	s := m.session
	if index < 0 || index >= len(s.controls) {
		return m.viewLocked(), fmt.Errorf("%w: no option at index %d", domain.ErrInvalidSelection, index)
	}
	if !containsValue(s.controls[index].Values, value) {
		return m.viewLocked(), fmt.Errorf("%w: %q is not a value of %s", domain.ErrInvalidSelection, value, s.controls[index].Name)
	}

	s.controls[index].Selected = value
	m.resolveLocked()

	return m.viewLocked(), nil
}

// Submit starts the add-to-cart request for the resolved variant. The request
// runs in the background and is cancelled if the session ends first.
func (m *Modal) Submit(cartToken string) (domain.ModalView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != domain.ModalOpen {
		return m.viewLocked(), fmt.Errorf("%w: cannot submit while %s", domain.ErrInvalidTransition, m.state)
	}

	s := m.session
	if s.display.Button.Disabled || s.display.VariantID == 0 {
		return m.viewLocked(), domain.ErrPurchaseDisabled
	}

	req := &domain.AddToCartRequest{
		Items:     BuildLineItems(s.display.VariantID, selectionsOf(s.controls), m.cfg.BonusVariantID),
		CartToken: cartToken,
	}

	s.errMsg = ""
	s.display.Button = domain.ButtonState{Label: domain.LabelAdding, Disabled: true}
	m.state = domain.ModalSubmitting

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.settled = make(chan struct{})

	log.Printf("[Modal] %s submitting %d item(s) (session %s)", m.id, len(req.Items), s.id)
	go m.runSubmission(ctx, s, req)

	return m.viewLocked(), nil
}

// Close hides the modal and ends the session. Always permitted.
func (m *Modal) Close() domain.ModalView {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeLocked()
	return m.viewLocked()
}

// KeyDown closes an open modal on Escape; any other key, or Escape while
// closed, has no effect.
func (m *Modal) KeyDown(key string) domain.ModalView {
	m.mu.Lock()
	defer m.mu.Unlock()

	if key == domain.KeyEscape && m.state != domain.ModalClosed {
		m.closeLocked()
	}
	return m.viewLocked()
}

// Await blocks until the current submission settles or ctx is done
func (m *Modal) Await(ctx context.Context) (domain.ModalView, error) {
	m.mu.Lock()
	var settled chan struct{}
	if m.session != nil {
		settled = m.session.settled
	}
	m.mu.Unlock()

	if settled == nil {
		return m.View(), nil
	}

	select {
	case <-settled:
		return m.View(), nil
	case <-ctx.Done():
		return m.View(), ctx.Err()
	}
}

func (m *Modal) runSubmission(ctx context.Context, s *modalSession, req *domain.AddToCartRequest) {
	defer close(s.settled)
	defer s.cancel()

	_, err := m.cart.AddItems(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != s {
		log.Printf("[Modal] %s dropping result of ended session %s", m.id, s.id)
		return
	}

	if err != nil {
		log.Printf("[Modal] %s add to cart failed: %v", m.id, err)
		m.state = domain.ModalOpen
		s.display.Button = domain.ButtonState{Label: domain.LabelAddToCart}
		s.errMsg = domain.UserMessage(err)
		return
	}

	s.display.Button = domain.ButtonState{Label: domain.LabelAdded, Disabled: true}
	s.addedItems = req.Items
	s.closeTimer = time.AfterFunc(m.cfg.AddedCloseDelay, func() {
		m.finishAdded(s)
	})
}

// finishAdded closes the modal after the "Added!" delay and emits the refresh signal
func (m *Modal) finishAdded(s *modalSession) {
	m.mu.Lock()
	if m.session == s {
		m.closeLocked()
	}
	m.mu.Unlock()

	m.publishAdded(s)
}

func (m *Modal) publishAdded(s *modalSession) {
	if m.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.PublishTimeout)
	defer cancel()

	event := domain.CartEvent{
		Name:       domain.CartRefreshEvent,
		ModalID:    m.id,
		SessionID:  s.id,
		Items:      s.addedItems,
		OccurredAt: time.Now().UTC(),
	}
	if err := m.publisher.Publish(ctx, event); err != nil {
		log.Printf("[Modal] %s failed to publish %s: %v", m.id, event.Name, err)
	}
}

func (m *Modal) closeLocked() {
	if m.state == domain.ModalClosed && m.session == nil {
		return
	}
	m.endSessionLocked()
	m.state = domain.ModalClosed
	log.Printf("[Modal] %s closed", m.id)
}

// endSessionLocked invalidates the current session. A successful add whose
// auto-close is still pending publishes its refresh signal right away.
func (m *Modal) endSessionLocked() {
	s := m.session
	if s == nil {
		return
	}
	m.session = nil

	if s.cancel != nil {
		s.cancel()
	}
	if s.closeTimer != nil && s.closeTimer.Stop() {
		go m.publishAdded(s)
	}
}

func (m *Modal) resolveLocked() {
	s := m.session
	variant, found := ResolveVariant(selectionsOf(s.controls), s.product.Variants)
	s.display = DeriveDisplay(s.display, s.product, variant, found, m.cfg.Money)
}

func (m *Modal) viewLocked() domain.ModalView {
	view := domain.ModalView{
		ModalID:      m.id,
		State:        m.state,
		ScrollLocked: m.state != domain.ModalClosed,
	}

	s := m.session
	if s == nil {
		return view
	}

	view.SessionID = s.id
	view.Title = s.product.Title
	view.DescriptionHTML = s.product.Description
	view.ImageAlt = s.product.Title
	view.Display = s.display
	view.Error = s.errMsg
	if len(s.controls) > 0 {
		view.Options = make([]domain.OptionControl, len(s.controls))
		copy(view.Options, s.controls)
	}

	return view
}

func selectionsOf(controls []domain.OptionControl) []string {
	selections := make([]string, len(controls))
	for i, c := range controls {
		selections[i] = c.Selected
	}
	return selections
}

func containsValue(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
