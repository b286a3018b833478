package order

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func orderRow(id string, status Status) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"order_id", "user_id", "full_name", "status", "total_amount",
		"shipping_full_name", "shipping_address", "shipping_city", "shipping_state",
		"shipping_zip_code", "shipping_country", "shipping_phone",
		"payment_method", "payment_session_id", "created_at", "updated_at"}).
		AddRow(id, 1, "Ann Grower", string(status), "14.50",
			"Ann Grower", "1 Farm Rd", "Springfield", "IL",
			"62701", "US", "0123456789",
			PaymentCashOnDelivery, nil, now, now)
}

func itemRows(id string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"item_id", "order_id", "product_id", "farmer_id", "name", "quantity", "price"}).
		AddRow(1, id, 1, 10, "Wheat", 2, "7.25")
}

func TestPostgresCreate_OrderAndItemsInOneTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO order_items").
		WillReturnRows(sqlmock.NewRows([]string{"item_id"}).AddRow(7))
	mock.ExpectCommit()

	created, err := repo.Create(Order{ID: "ord-1", UserID: 1, Status: StatusPending},
		[]Item{{ProductID: 1, FarmerID: 10, Quantity: 2}})
	if err != nil {
		t.Fatal(err)
	}
	if len(created.Items) != 1 || created.Items[0].ID != 7 {
		t.Errorf("expected item id 7 from insert, got %+v", created.Items)
	}
	if created.Items[0].OrderID != "ord-1" {
		t.Errorf("expected item bound to order, got %q", created.Items[0].OrderID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreate_RollsBackOnItemFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO order_items").WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	_, err = repo.Create(Order{ID: "ord-2", UserID: 1},
		[]Item{{ProductID: 1, FarmerID: 10, Quantity: 1}})
	if err == nil {
		t.Fatal("expected create to fail when an item insert fails")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByID_LoadsItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM orders o").WithArgs("ord-1").WillReturnRows(orderRow("ord-1", StatusPending))
	mock.ExpectQuery("FROM order_items oi").WithArgs("ord-1").WillReturnRows(itemRows("ord-1"))

	ord, err := repo.GetByID("ord-1")
	if err != nil {
		t.Fatal(err)
	}
	if ord.BuyerName != "Ann Grower" {
		t.Errorf("expected buyer name from join, got %q", ord.BuyerName)
	}
	if len(ord.Items) != 1 || ord.Items[0].ProductName != "Wheat" {
		t.Errorf("unexpected items %+v", ord.Items)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM orders o").WithArgs("ord-missing").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}))

	_, err = repo.GetByID("ord-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresUpdateStatus_GuardRejectsIllegalMove(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// zero rows affected with an existing order means the status guard fired
	mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("ord-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err = repo.UpdateStatus("ord-1", StatusProcessing)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateStatus_MissingOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("ord-missing").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err = repo.UpdateStatus("ord-missing", StatusProcessing)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresUpdateStatus_ReturnsUpdatedOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM orders o").WithArgs("ord-1").WillReturnRows(orderRow("ord-1", StatusProcessing))
	mock.ExpectQuery("FROM order_items oi").WithArgs("ord-1").WillReturnRows(itemRows("ord-1"))

	ord, err := repo.UpdateStatus("ord-1", StatusProcessing)
	if err != nil {
		t.Fatal(err)
	}
	if ord.Status != StatusProcessing {
		t.Errorf("expected processing, got %s", ord.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
