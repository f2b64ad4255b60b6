package order

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCreateWithItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(12))
	mock.ExpectQuery("INSERT INTO order_item").
		WithArgs(12, 1, "Ball Pen", 25.0, 2, 50.0).
		WillReturnRows(sqlmock.NewRows([]string{"line_item_id"}).AddRow(31))
	mock.ExpectQuery("INSERT INTO order_item").
		WithArgs(12, 3, "Sketchbook", 350.0, 1, 350.0).
		WillReturnRows(sqlmock.NewRows([]string{"line_item_id"}).AddRow(32))
	mock.ExpectCommit()

	tx, err := db.Begin()
	if err != nil {
		t.Fatal(err)
	}

	ord, err := repo.CreateWithItems(tx, Order{
		UserID:         5,
		FullName:       "Sita Sharma",
		Street:         "Thamel Marg 12",
		City:           "Kathmandu",
		Phone:          "9800000000",
		Subtotal:       400,
		Total:          400,
		DeliveryOption: "standard",
		PaymentMethod:  PaymentMethodCOD,
		PaymentStatus:  PaymentCompleted,
		Status:         StatusPending,
	}, []LineItem{
		{ProductID: 1, Name: "Ball Pen", Price: 25, Quantity: 2, Subtotal: 50},
		{ProductID: 3, Name: "Sketchbook", Price: 350, Quantity: 1, Subtotal: 350},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	if ord.ID != 12 {
		t.Errorf("expected order id 12, got %d", ord.ID)
	}
	if len(ord.Items) != 2 || ord.Items[0].ID != 31 || ord.Items[1].ID != 32 {
		t.Errorf("unexpected items %+v", ord.Items)
	}
	if ord.Items[0].OrderID != 12 || ord.Items[1].OrderID != 12 {
		t.Error("line items must carry the new order id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE orders").
		WithArgs(99, StatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateStatus(99, StatusProcessing); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
