package loyalty

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTierFor(t *testing.T) {
	cases := []struct {
		points int
		want   string
	}{
		{0, TierSilver},
		{499, TierSilver},
		{500, TierGold},
		{999, TierGold},
		{1000, TierPlatinum},
		{5000, TierPlatinum},
	}
	for _, c := range cases {
		if got := TierFor(c.points); got != c.want {
			t.Errorf("TierFor(%d) = %v, want %v", c.points, got, c.want)
		}
	}
}

func TestPointsFor(t *testing.T) {
	cases := []struct {
		amount float64
		want   int
	}{
		{0, 0},
		{-50, 0},
		{9.99, 0},
		{10, 1},
		{199, 19},
		{1250, 125},
	}
	for _, c := range cases {
		if got := PointsFor(c.amount); got != c.want {
			t.Errorf("PointsFor(%v) = %d, want %d", c.amount, got, c.want)
		}
	}
}

func TestEarnTx_PromotesTier(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(nil, repo)

	card, err := svc.EarnTx(nil, 1, 480, "Earned on order #1")
	if err != nil {
		t.Fatal(err)
	}
	if card.Tier != TierSilver {
		t.Fatalf("expected Silver at 480, got %v", card.Tier)
	}

	card, err = svc.EarnTx(nil, 1, 30, "Earned on order #2")
	if err != nil {
		t.Fatal(err)
	}
	if card.Points != 510 || card.Tier != TierGold {
		t.Fatalf("expected Gold at 510, got %d points %v", card.Points, card.Tier)
	}

	history, err := svc.History(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", len(history))
	}
}

func TestEarnTx_ZeroPointsIsNoOp(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(nil, repo)

	if _, err := svc.EarnTx(nil, 1, 0, "Earned on order #1"); err != nil {
		t.Fatal(err)
	}
	history, _ := svc.History(1)
	if len(history) != 0 {
		t.Fatalf("expected no ledger rows for zero points, got %d", len(history))
	}
}

func TestRedeemTx_Overdraw(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(nil, repo)

	if _, err := svc.EarnTx(nil, 1, 50, "Earned on order #1"); err != nil {
		t.Fatal(err)
	}
	_, err := svc.RedeemTx(nil, 1, 60, "Redeemed on order #2")
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}

	card, err := svc.Card(1)
	if err != nil {
		t.Fatal(err)
	}
	if card.Points != 50 {
		t.Fatalf("balance must be untouched after a refused redeem, got %d", card.Points)
	}
}

func TestRedeemTx_DemotesTier(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(nil, repo)

	if _, err := svc.EarnTx(nil, 1, 520, "Earned on order #1"); err != nil {
		t.Fatal(err)
	}
	card, err := svc.RedeemTx(nil, 1, 100, "Redeemed on order #2")
	if err != nil {
		t.Fatal(err)
	}
	if card.Points != 420 || card.Tier != TierSilver {
		t.Fatalf("expected Silver at 420, got %d points %v", card.Points, card.Tier)
	}
}

func TestRecordManualSale(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	svc := NewService(db, NewPostgresRepository(db))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO sale").
		WithArgs(7, 250.0, "2 notebooks, 1 pen", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"sale_id"}).AddRow(3))
	mock.ExpectQuery("SELECT card_id, user_id, points, tier").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"card_id", "user_id", "points", "tier"}).
			AddRow(1, 7, 40, string(TierSilver)))
	mock.ExpectExec("UPDATE loyalty_card").
		WithArgs(7, 65, string(TierSilver)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO loyalty_transaction").
		WithArgs(7, 25, string(KindEarn), "Manual sale: 2 notebooks, 1 pen", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"transaction_id"}).AddRow(11))
	mock.ExpectCommit()

	sale, card, err := svc.RecordManualSale(7, 250, "2 notebooks, 1 pen")
	if err != nil {
		t.Fatal(err)
	}
	if sale.ID != 3 || sale.Amount != 250 {
		t.Errorf("unexpected sale %+v", sale)
	}
	if card.Points != 65 {
		t.Errorf("expected balance 65 after crediting 25, got %d", card.Points)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRecordManualSale_BadAmount(t *testing.T) {
	svc := NewService(nil, NewInMemoryRepository())

	if _, _, err := svc.RecordManualSale(7, 0, "nothing"); !errors.Is(err, ErrBadAmount) {
		t.Fatalf("expected ErrBadAmount, got %v", err)
	}
}
