package store

import "context"

type CategoryStore struct {
	db DB
}

// Sellable marks whether lots of this category contribute to a product's
// available quantity when stocked. The personal-use category carries FALSE.
type Category struct {
	ID          int64  `db:"id_cat"`
	Designation string `db:"designation_cat"`
	Sellable    bool   `db:"vendable"`
}

func NewCategoryStore(db DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) Create(ctx context.Context, tx Execer, category Category) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO categorie (id_cat, designation_cat, vendable)
		VALUES ($1, $2, $3)
	`, category.ID, category.Designation, category.Sellable)
	return err
}

func (s *CategoryStore) GetByID(ctx context.Context, tx Getter, categoryID int64) (Category, error) {
	var row Category
	err := tx.GetContext(ctx, &row, `
		SELECT id_cat, designation_cat, vendable
		FROM categorie
		WHERE id_cat = $1
	`, categoryID)
	if err != nil {
		return Category{}, err
	}
	return row, nil
}

func (s *CategoryStore) Exists(ctx context.Context, designation string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM categorie WHERE designation_cat = $1)
	`, designation)
	return exists, err
}

func (s *CategoryStore) List(ctx context.Context) ([]Category, error) {
	var rows []Category
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id_cat, designation_cat, vendable
		FROM categorie
		ORDER BY designation_cat
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
