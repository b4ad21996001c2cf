package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type LotStore struct {
	db DB
}

// Lot is one purchase batch ("colis") of a single product. A lot with a nil
// StockDate is still in transit and not sellable.
type Lot struct {
	ID           int64           `db:"id_colis"`
	ProductID    int64           `db:"prd_id"`
	CategoryID   int64           `db:"cat_id"`
	AccountID    int64           `db:"cpt_id"`
	PurchaseDate time.Time       `db:"date_achat"`
	StockDate    *time.Time      `db:"date_stock"`
	QtyPurchased int64           `db:"qte_achat"`
	QtyInStock   int64           `db:"qte_stock"`
	TotalSource  decimal.Decimal `db:"mnt_tot_dev"`
	TotalBase    decimal.Decimal `db:"mnt_tot_dzd"`
	UnitSource   decimal.Decimal `db:"pu_dev"`
	UnitBase     decimal.Decimal `db:"pu_dzd"`
	UnitBaseTTC  decimal.Decimal `db:"pu_dzd_ttc"`
	StampDuty    bool            `db:"droits_timbre"`
}

// SellableLot carries the owning account's type alongside the lot, which the
// FIFO walk needs to decide whether a deduction creates a refund obligation.
type SellableLot struct {
	ID          int64           `db:"id_colis"`
	QtyInStock  int64           `db:"qte_stock"`
	UnitBase    decimal.Decimal `db:"pu_dzd"`
	AccountType string          `db:"type_cpt"`
}

type EnRouteLot struct {
	ID           int64           `db:"id_colis"`
	ProductID    int64           `db:"prd_id"`
	Product      string          `db:"designation_prd"`
	Category     string          `db:"designation_cat"`
	PurchaseDate time.Time       `db:"date_achat"`
	QtyPurchased int64           `db:"qte_achat"`
	TotalSource  decimal.Decimal `db:"mnt_tot_dev"`
	Symbol       string          `db:"symbole_dev"`
}

func NewLotStore(db DB) *LotStore {
	return &LotStore{db: db}
}

func (s *LotStore) Create(ctx context.Context, tx Execer, lot Lot) error {
	query := `
		INSERT INTO colis (id_colis, prd_id, cat_id, cpt_id, date_achat, qte_achat, qte_stock,
		                   mnt_tot_dev, mnt_tot_dzd, pu_dev, pu_dzd, pu_dzd_ttc)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9, $10, $11)
	`
	_, err := tx.ExecContext(ctx, query,
		lot.ID, lot.ProductID, lot.CategoryID, lot.AccountID, lot.PurchaseDate, lot.QtyPurchased,
		lot.TotalSource, lot.TotalBase, lot.UnitSource, lot.UnitBase, lot.UnitBaseTTC,
	)
	return err
}

func (s *LotStore) GetForUpdate(ctx context.Context, tx Getter, lotID int64) (Lot, error) {
	var row Lot
	err := tx.GetContext(ctx, &row, `
		SELECT id_colis, prd_id, cat_id, cpt_id, date_achat, date_stock, qte_achat, qte_stock,
		       mnt_tot_dev, mnt_tot_dzd, pu_dev, pu_dzd, pu_dzd_ttc, droits_timbre
		FROM colis
		WHERE id_colis = $1
		FOR UPDATE
	`, lotID)
	if err != nil {
		return Lot{}, err
	}
	return row, nil
}

// ListSellable returns the FIFO deduction candidates for a product: stocked
// lots with remaining quantity, oldest purchase first.
func (s *LotStore) ListSellable(ctx context.Context, tx Selecter, productID int64) ([]SellableLot, error) {
	var rows []SellableLot
	err := tx.SelectContext(ctx, &rows, `
		SELECT c.id_colis, c.qte_stock, c.pu_dzd, k.type_cpt
		FROM colis c
		JOIN compte k ON k.id_cpt = c.cpt_id
		WHERE c.prd_id = $1 AND c.qte_stock > 0 AND c.date_stock IS NOT NULL
		ORDER BY c.date_achat, c.id_colis
	`, productID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeductStock decrements qte_stock atomically and returns the post-decrement
// value, which may be negative; the caller must abort the transaction then.
func (s *LotStore) DeductStock(ctx context.Context, tx Getter, lotID int64, quantity int64) (int64, error) {
	var remaining int64
	err := tx.GetContext(ctx, &remaining, `
		UPDATE colis
		SET qte_stock = qte_stock - $1
		WHERE id_colis = $2
		RETURNING qte_stock
	`, quantity, lotID)
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// MarkStocked freezes qte_stock at qte_achat and records the arrival.
func (s *LotStore) MarkStocked(ctx context.Context, tx Execer, lotID int64, stockDate time.Time, stampDuty bool, unitBaseTTC decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE colis
		SET date_stock = $1, droits_timbre = $2, qte_stock = qte_achat, pu_dzd_ttc = $3
		WHERE id_colis = $4
	`, stockDate, stampDuty, unitBaseTTC, lotID)
	return err
}

func (s *LotStore) UpdatePricing(ctx context.Context, tx Execer, lotID int64, totalSource, totalBase, unitSource, unitBase, unitBaseTTC decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE colis
		SET mnt_tot_dev = $1, mnt_tot_dzd = $2, pu_dev = $3, pu_dzd = $4, pu_dzd_ttc = $5
		WHERE id_colis = $6
	`, totalSource, totalBase, unitSource, unitBase, unitBaseTTC, lotID)
	return err
}

func (s *LotStore) Delete(ctx context.Context, tx Execer, lotID int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM colis WHERE id_colis = $1`, lotID)
	return err
}

func (s *LotStore) ListEnRoute(ctx context.Context) ([]EnRouteLot, error) {
	var rows []EnRouteLot
	err := s.db.SelectContext(ctx, &rows, `
		SELECT c.id_colis, c.prd_id, p.designation_prd, cat.designation_cat,
		       c.date_achat, c.qte_achat, c.mnt_tot_dev, d.symbole_dev
		FROM colis c
		JOIN produit p ON p.id_prd = c.prd_id
		JOIN categorie cat ON cat.id_cat = c.cat_id
		JOIN compte k ON k.id_cpt = c.cpt_id
		JOIN devise d ON d.code_dev = k.dev_code
		WHERE c.date_stock IS NULL
		ORDER BY c.date_achat
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
