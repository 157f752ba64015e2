package inventory_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinv "github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// memStore estado compartido de los repositorios en memoria. memTxRunner toma
// un snapshot antes de cada callback y lo restaura si falla, imitando el
// rollback de una transacción real.
type memStore struct {
	stocks    map[string]*entity.Stock // clave: productID|branchID
	movements []*entity.StockMovement
	transfers map[string]*entity.Transfer
	sequences map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		stocks:    make(map[string]*entity.Stock),
		transfers: make(map[string]*entity.Transfer),
		sequences: make(map[string]int),
	}
}

func stockKey(productID, branchID string) string { return productID + "|" + branchID }

func (s *memStore) setStock(productID, branchID string, qty, reserved int64) {
	s.stocks[stockKey(productID, branchID)] = &entity.Stock{
		ProductID:        productID,
		BranchID:         branchID,
		Quantity:         decimal.NewFromInt(qty),
		ReservedQuantity: decimal.NewFromInt(reserved),
	}
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for k, v := range s.stocks {
		c := *v
		cp.stocks[k] = &c
	}
	cp.movements = append([]*entity.StockMovement(nil), s.movements...)
	for k, v := range s.transfers {
		c := *v
		c.Notes = append([]string(nil), v.Notes...)
		cp.transfers[k] = &c
	}
	for k, v := range s.sequences {
		cp.sequences[k] = v
	}
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.stocks = from.stocks
	s.movements = from.movements
	s.transfers = from.transfers
	s.sequences = from.sequences
}

// ── repositorios ─────────────────────────────────────────────────────────────

type memStockRepo struct{ store *memStore }

func (r *memStockRepo) Get(productID, branchID string) (*entity.Stock, error) {
	if s, ok := r.store.stocks[stockKey(productID, branchID)]; ok {
		c := *s
		return &c, nil
	}
	return entity.NewStock(productID, branchID), nil
}

// GetForUpdate materializa la fila en cero si el par no tiene historial, igual
// que el adaptador real: el bloqueo del primer movimiento debe dejar una fila
// durable sobre la que serialicen los demás escritores.
func (r *memStockRepo) GetForUpdate(productID, branchID string) (*entity.Stock, error) {
	key := stockKey(productID, branchID)
	if _, ok := r.store.stocks[key]; !ok {
		r.store.stocks[key] = entity.NewStock(productID, branchID)
	}
	c := *r.store.stocks[key]
	return &c, nil
}

func (r *memStockRepo) Upsert(stock *entity.Stock) error {
	c := *stock
	r.store.stocks[stockKey(stock.ProductID, stock.BranchID)] = &c
	return nil
}

type memMovementRepo struct{ store *memStore }

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	c := *m
	r.store.movements = append(r.store.movements, &c)
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.store.movements {
		if m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	// recorrido inverso: el libro se consulta del más reciente al más antiguo
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		m := r.store.movements[i]
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.BranchID != "" && m.BranchID != filter.BranchID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.TransferID != "" && m.TransferID != filter.TransferID {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memTransferRepo struct{ store *memStore }

func (r *memTransferRepo) Create(t *entity.Transfer) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	c := *t
	c.Notes = append([]string(nil), t.Notes...)
	r.store.transfers[t.ID] = &c
	return nil
}

func (r *memTransferRepo) GetByID(id string) (*entity.Transfer, error) {
	t, ok := r.store.transfers[id]
	if !ok {
		return nil, nil
	}
	c := *t
	c.Notes = append([]string(nil), t.Notes...)
	return &c, nil
}

func (r *memTransferRepo) GetForUpdate(id string) (*entity.Transfer, error) {
	return r.GetByID(id)
}

func (r *memTransferRepo) Update(t *entity.Transfer) error {
	c := *t
	c.Notes = append([]string(nil), t.Notes...)
	r.store.transfers[t.ID] = &c
	return nil
}

func (r *memTransferRepo) List(status string, limit, offset int) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	for _, t := range r.store.transfers {
		if status != "" && t.Status != status {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	return out, nil
}

func (r *memTransferRepo) FindPendingTooLong(olderThan time.Time) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	for _, t := range r.store.transfers {
		if t.IsTerminal() || !t.RequestedAt.Before(olderThan) {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	return out, nil
}

func (r *memTransferRepo) NextTransferNumber(day time.Time) (string, error) {
	key := day.Format("20060102")
	r.store.sequences[key]++
	return fmt.Sprintf("TR-%s-%04d", key, r.store.sequences[key]), nil
}

type memProductRepo struct{ products map[string]*entity.Product }

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

type memBranchRepo struct{ branches map[string]*entity.Branch }

func (r *memBranchRepo) GetByID(id string) (*entity.Branch, error) {
	return r.branches[id], nil
}

func (r *memBranchRepo) List(limit, offset int) ([]*entity.Branch, error) {
	var out []*entity.Branch
	for _, b := range r.branches {
		out = append(out, b)
	}
	return out, nil
}

// memTxRunner ejecuta el callback contra el estado en memoria con semántica
// de rollback: si el callback falla, el estado vuelve al snapshot previo.
type memTxRunner struct{ store *memStore }

func (tx *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	transferRepo repository.TransferRepository,
) error) error {
	before := tx.store.snapshot()
	err := fn(
		&memMovementRepo{store: tx.store},
		&memStockRepo{store: tx.store},
		&memTransferRepo{store: tx.store},
	)
	if err != nil {
		tx.store.restore(before)
	}
	return err
}

// ── fixture ──────────────────────────────────────────────────────────────────

const (
	prodID  = "11111111-1111-1111-1111-111111111111"
	branchA = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	branchB = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	actorID = "farmaceuta-1"
	unitTAB = "TAB"
	unitBOX = "BOX"
)

type fixture struct {
	store        *memStore
	movements    *memMovementRepo
	stocks       *memStockRepo
	registerUC   *appinv.RegisterMovementUseCase
	reservations *appinv.ReservationUseCase
	transfers    *appinv.TransferUseCase
}

// newFixture arma los casos de uso con repositorios en memoria y un catálogo
// mínimo: un producto (base TAB, BOX de 12) y dos sucursales.
func newFixture() *fixture {
	store := newMemStore()
	products := &memProductRepo{products: map[string]*entity.Product{
		prodID: {
			ID:   prodID,
			SKU:  "AMOX-500",
			Name: "Amoxicilina 500mg",
			Cost: decimal.RequireFromString("2.50"),
			Units: []entity.ProductUnit{
				{Code: unitTAB, ConversionRate: decimal.NewFromInt(1), IsBase: true},
				{Code: unitBOX, ConversionRate: decimal.NewFromInt(12)},
			},
		},
	}}
	branches := &memBranchRepo{branches: map[string]*entity.Branch{
		branchA: {ID: branchA, Name: "Sucursal Centro"},
		branchB: {ID: branchB, Name: "Sucursal Norte"},
	}}
	txRunner := &memTxRunner{store: store}
	transferRepo := &memTransferRepo{store: store}

	return &fixture{
		store:        store,
		movements:    &memMovementRepo{store: store},
		stocks:       &memStockRepo{store: store},
		registerUC:   appinv.NewRegisterMovementUseCase(txRunner, products, branches),
		reservations: appinv.NewReservationUseCase(txRunner, products, branches),
		transfers:    appinv.NewTransferUseCase(txRunner, products, branches, transferRepo),
	}
}
