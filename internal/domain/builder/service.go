// internal/domain/builder/service.go
package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/cart"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/catalog"
)

// CartAdder is the slice of the cart service the builder commits through.
type CartAdder interface {
	AddToCart(ctx context.Context, sessionID string, productID uint, quantity int) (*cart.Cart, error)
}

// Selection is one chosen component: at most one product per category,
// with its own quantity.
type Selection struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// State is the per-session builder state. Validation failures live
// here as fields, not as errors: only unexpected I/O during commit is
// surfaced as a Go error.
type State struct {
	Selections         map[string]Selection `json:"selections"`
	Errors             map[string]string    `json:"errors"`
	CompatibilityError string               `json:"compatibility_error,omitempty"`
	MissingMessage     string               `json:"missing_message,omitempty"`
	Committed          bool                 `json:"committed"`
}

// Service drives the guided PC-assembly flow. Builder selections are
// transient per session and never persisted; they reach the cart only
// through an explicit commit.
type Service struct {
	catalog *catalog.Store
	cart    CartAdder

	mu       sync.Mutex
	sessions map[string]*State
}

// NewService creates a new builder service
func NewService(catalogStore *catalog.Store, cartService CartAdder) *Service {
	return &Service{
		catalog:  catalogStore,
		cart:     cartService,
		sessions: make(map[string]*State),
	}
}

// State returns a copy of the session's builder state.
func (s *Service) State(sessionID string) *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.session(sessionID))
}

// Clear drops the session's builder state.
func (s *Service) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// SelectComponent records a selection for a category, replacing any
// prior one. Quantities above stock or above the category maximum are
// rejected with a per-category error and leave the selection unchanged.
func (s *Service) SelectComponent(ctx context.Context, sessionID, slug string, productID uint, quantity int) (*State, error) {
	restriction, ok := restrictionFor(slug)
	if !ok {
		return nil, fmt.Errorf("unknown builder category %q", slug)
	}
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.catalog.ProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return s.withSessionCopy(sessionID, func(state *State) {
				state.Errors[slug] = "producto no encontrado"
			}), nil
		}
		return nil, err
	}

	if quantity > product.Stock {
		return s.withSessionCopy(sessionID, func(state *State) {
			state.Errors[slug] = fmt.Sprintf("stock insuficiente: quedan %d unidades", product.Stock)
		}), nil
	}
	if restriction.Max > 0 && quantity > restriction.Max {
		return s.withSessionCopy(sessionID, func(state *State) {
			state.Errors[slug] = fmt.Sprintf("máximo %d por categoría", restriction.Max)
		}), nil
	}

	s.withSessionCopy(sessionID, func(state *State) {
		state.Selections[slug] = Selection{ProductID: productID, Quantity: quantity}
		delete(state.Errors, slug)
	})

	return s.ValidateCompatibility(ctx, sessionID), nil
}

// IncreaseQuantity raises the category's selection by one, clamped by
// min(stock, category max).
func (s *Service) IncreaseQuantity(ctx context.Context, sessionID, slug string) (*State, error) {
	restriction, ok := restrictionFor(slug)
	if !ok {
		return nil, fmt.Errorf("unknown builder category %q", slug)
	}

	s.mu.Lock()
	state := s.session(sessionID)
	selection, selected := state.Selections[slug]
	s.mu.Unlock()
	if !selected {
		return s.State(sessionID), nil
	}

	product, err := s.catalog.ProductByID(ctx, selection.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return s.withSessionCopy(sessionID, func(state *State) {
				delete(state.Selections, slug)
				state.Errors[slug] = "producto no encontrado"
			}), nil
		}
		return nil, err
	}

	limit := maxAllowed(restriction, product.Stock)
	return s.withSessionCopy(sessionID, func(state *State) {
		sel := state.Selections[slug]
		if sel.Quantity < limit {
			sel.Quantity++
			state.Selections[slug] = sel
		}
	}), nil
}

// DecreaseQuantity lowers the category's selection by one; reaching
// zero removes the selection entirely.
func (s *Service) DecreaseQuantity(sessionID, slug string) (*State, error) {
	if _, ok := restrictionFor(slug); !ok {
		return nil, fmt.Errorf("unknown builder category %q", slug)
	}

	return s.withSessionCopy(sessionID, func(state *State) {
		selection, selected := state.Selections[slug]
		if !selected {
			return
		}
		selection.Quantity--
		if selection.Quantity <= 0 {
			delete(state.Selections, slug)
			return
		}
		state.Selections[slug] = selection
	}), nil
}

// ValidateCompatibility checks the one cross-category rule: when both
// a CPU and a motherboard are selected their socket specifications
// must match. A mismatch records a compatibility error that blocks
// commit; a match clears it.
func (s *Service) ValidateCompatibility(ctx context.Context, sessionID string) *State {
	s.mu.Lock()
	state := s.session(sessionID)
	cpuSel, hasCPU := state.Selections["cpu"]
	moboSel, hasMobo := state.Selections["motherboard"]
	s.mu.Unlock()

	if !hasCPU || !hasMobo {
		return s.withSessionCopy(sessionID, func(state *State) {
			state.CompatibilityError = ""
		})
	}

	cpu, cpuErr := s.catalog.ProductByID(ctx, cpuSel.ProductID)
	mobo, moboErr := s.catalog.ProductByID(ctx, moboSel.ProductID)
	if cpuErr != nil || moboErr != nil {
		// Resolution problems surface at commit; compatibility state
		// stays as it was.
		return s.State(sessionID)
	}

	return s.withSessionCopy(sessionID, func(state *State) {
		if cpu.Socket() != mobo.Socket() {
			state.CompatibilityError = fmt.Sprintf(
				"el socket del procesador (%s) no es compatible con el motherboard (%s)",
				cpu.Socket(), mobo.Socket())
			return
		}
		state.CompatibilityError = ""
	})
}

// CommitToCart validates the whole build and, when every rule passes,
// forwards each selection to the cart and clears the builder state.
// Cardinality and stock failures block the commit as state; only I/O
// failure is returned as an error.
func (s *Service) CommitToCart(ctx context.Context, sessionID string) (*State, error) {
	state := s.ValidateCompatibility(ctx, sessionID)

	var missing []string
	blocked := state.CompatibilityError != ""

	for _, restriction := range Restrictions {
		selection := state.Selections[restriction.Slug]
		if selection.Quantity < restriction.Min {
			missing = append(missing, restriction.Label)
			continue
		}
		if restriction.Max > 0 && selection.Quantity > restriction.Max {
			s.withSessionCopy(sessionID, func(st *State) {
				st.Errors[restriction.Slug] = fmt.Sprintf("máximo %d por categoría", restriction.Max)
			})
			blocked = true
		}
	}

	if len(missing) > 0 {
		return s.withSessionCopy(sessionID, func(st *State) {
			st.MissingMessage = "faltan componentes requeridos: " + strings.Join(missing, ", ")
		}), nil
	}
	if blocked {
		return s.State(sessionID), nil
	}

	// Selections may be stale relative to the catalog; refresh before
	// the final stock check.
	s.catalog.Invalidate()
	if err := s.catalog.EnsureLoaded(ctx); err != nil {
		return nil, fmt.Errorf("failed to refresh catalog before commit: %w", err)
	}

	stockOK := true
	for _, restriction := range Restrictions {
		selection, selected := state.Selections[restriction.Slug]
		if !selected {
			continue
		}
		product, err := s.catalog.ProductByID(ctx, selection.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				s.withSessionCopy(sessionID, func(st *State) {
					st.Errors[restriction.Slug] = "producto no encontrado"
				})
				stockOK = false
				continue
			}
			return nil, err
		}
		if selection.Quantity > product.Stock {
			s.withSessionCopy(sessionID, func(st *State) {
				st.Errors[restriction.Slug] = fmt.Sprintf("stock insuficiente: quedan %d unidades", product.Stock)
			})
			stockOK = false
		}
	}
	if !stockOK {
		return s.State(sessionID), nil
	}

	for _, restriction := range Restrictions {
		selection, selected := state.Selections[restriction.Slug]
		if !selected {
			continue
		}
		if _, err := s.cart.AddToCart(ctx, sessionID, selection.ProductID, selection.Quantity); err != nil {
			return nil, fmt.Errorf("failed to add build to cart: %w", err)
		}
	}

	s.Clear(sessionID)
	committed := newState()
	committed.Committed = true
	return committed, nil
}

// session returns the live state for a session, creating it on demand.
// Callers must hold s.mu.
func (s *Service) session(sessionID string) *State {
	state, ok := s.sessions[sessionID]
	if !ok {
		state = newState()
		s.sessions[sessionID] = state
	}
	return state
}

// withSessionCopy mutates the live session state under the lock and
// returns a copy of the result.
func (s *Service) withSessionCopy(sessionID string, mutate func(*State)) *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.session(sessionID)
	mutate(state)
	return copyState(state)
}

func newState() *State {
	return &State{
		Selections: make(map[string]Selection),
		Errors:     make(map[string]string),
	}
}

func copyState(state *State) *State {
	out := newState()
	for k, v := range state.Selections {
		out.Selections[k] = v
	}
	for k, v := range state.Errors {
		out.Errors[k] = v
	}
	out.CompatibilityError = state.CompatibilityError
	out.MissingMessage = state.MissingMessage
	out.Committed = state.Committed
	return out
}
