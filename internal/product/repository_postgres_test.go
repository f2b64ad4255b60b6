package product

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStockStatus(t *testing.T) {
	cases := []struct {
		stock int
		want  string
	}{
		{0, "Out of Stock"},
		{1, "Low Stock"},
		{9, "Low Stock"},
		{10, "In Stock"},
		{250, "In Stock"},
	}
	for _, c := range cases {
		p := Product{Stock: c.stock}
		if got := p.StockStatus(); got != c.want {
			t.Errorf("StockStatus with stock %d = %q, want %q", c.stock, got, c.want)
		}
	}
}

func TestGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{
		"product_id", "product_name", "product_price", "stock", "category", "product_desc", "created_at", "updated_at",
	}).AddRow(1, "Ball Pen", 25.0, 120, "Pens and Pencils", nil, nil, nil)
	mock.ExpectQuery("SELECT product_id, product_name").WithArgs(1).WillReturnRows(rows)

	p, err := repo.GetByID(1)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Ball Pen" || p.Price != 25.0 || p.Stock != 120 {
		t.Fatalf("unexpected product %+v", p)
	}
	if p.Category == nil || *p.Category != "Pens and Pencils" {
		t.Errorf("unexpected category %v", p.Category)
	}
	if p.Description != nil {
		t.Errorf("expected nil description, got %v", *p.Description)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT product_id, product_name").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{
			"product_id", "product_name", "product_price", "stock", "category", "product_desc", "created_at", "updated_at",
		}))

	if _, err := repo.GetByID(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDecrementStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE product").
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DecrementStock(nil, 1, 2); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDecrementStock_GuardRejects(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE product").
		WithArgs(1, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT stock FROM product").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(3))

	if err := repo.DecrementStock(nil, 1, 5); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
}

func TestDecrementStock_RowGone(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE product").
		WithArgs(7, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT stock FROM product").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"stock"}))

	if err := repo.DecrementStock(nil, 7, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
