package store

import "context"

type ProductStore struct {
	db DB
}

type Product struct {
	ID          int64  `db:"id_prd"`
	Designation string `db:"designation_prd"`
	Available   int64  `db:"qte_dispo"`
}

func NewProductStore(db DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) Create(ctx context.Context, tx Execer, productID int64, designation string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO produit (id_prd, designation_prd)
		VALUES ($1, $2)
	`, productID, designation)
	return err
}

func (s *ProductStore) GetByID(ctx context.Context, tx Getter, productID int64) (Product, error) {
	var row Product
	err := tx.GetContext(ctx, &row, `
		SELECT id_prd, designation_prd, qte_dispo
		FROM produit
		WHERE id_prd = $1
	`, productID)
	if err != nil {
		return Product{}, err
	}
	return row, nil
}

// FindByDesignation returns (product, true) on a match. Lot purchases reuse
// the existing product row for a known designation.
func (s *ProductStore) FindByDesignation(ctx context.Context, tx Getter, designation string) (Product, bool, error) {
	var row Product
	err := tx.GetContext(ctx, &row, `
		SELECT id_prd, designation_prd, qte_dispo
		FROM produit
		WHERE designation_prd = $1
	`, designation)
	if err != nil {
		if isNoRows(err) {
			return Product{}, false, nil
		}
		return Product{}, false, err
	}
	return row, true, nil
}

// AdjustAvailable applies delta to the denormalized availability counter and
// returns the post-change value. Callers abort the transaction when the
// returned quantity is negative; that check is the global stock guard.
func (s *ProductStore) AdjustAvailable(ctx context.Context, tx Getter, productID int64, delta int64) (int64, error) {
	var available int64
	err := tx.GetContext(ctx, &available, `
		UPDATE produit
		SET qte_dispo = qte_dispo + $1
		WHERE id_prd = $2
		RETURNING qte_dispo
	`, delta, productID)
	if err != nil {
		return 0, err
	}
	return available, nil
}
