package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStore struct {
	db DB
}

type OrderLineInput struct {
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

func NewOrderStore(db DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) Create(ctx context.Context, tx Execer, orderID int64, saleDate time.Time, total decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO commande (id_cde, date_cde, mnt_cde)
		VALUES ($1, $2, $3)
	`, orderID, saleDate, total)
	return err
}

func (s *OrderStore) InsertLines(ctx context.Context, tx Execer, orderID int64, lines []OrderLineInput) error {
	query := `
		INSERT INTO ligne_commande (cde_id, prd_id, qte_cde, pu_vente)
		VALUES ($1, $2, $3, $4)
	`
	for _, line := range lines {
		if _, err := tx.ExecContext(ctx, query, orderID, line.ProductID, line.Quantity, line.UnitPrice); err != nil {
			return err
		}
	}
	return nil
}

// LinkLot records which lot a line's quantity was drawn from. The sum of qte
// across a line's links equals the line's sold quantity.
func (s *OrderStore) LinkLot(ctx context.Context, tx Execer, orderID, productID, lotID, quantity int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ligne_commande_colis (cde_id, prd_id, colis_id, qte)
		VALUES ($1, $2, $3, $4)
	`, orderID, productID, lotID, quantity)
	return err
}
