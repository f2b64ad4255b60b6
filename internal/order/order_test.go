package order

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusShipped, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusProcessing, StatusPending, false},
		{StatusDelivered, StatusShipped, false},
		{StatusPending, StatusPending, false},
		{StatusPending, StatusCancelled, true},
		{StatusShipped, StatusCancelled, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusPending, "lost", false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

// fakeRepo backs the service tests with a single stored order.
type fakeRepo struct {
	order       Order
	statusCalls []string
	tracking    *TrackingUpdate
	deliveredAt *string
}

func (f *fakeRepo) CreateWithItems(q DBTX, ord Order, items []LineItem) (Order, error) {
	ord.ID = 1
	ord.Items = items
	f.order = ord
	return ord, nil
}

func (f *fakeRepo) GetByID(id int) (Order, error) {
	if id != f.order.ID {
		return Order{}, ErrNotFound
	}
	return f.order, nil
}

func (f *fakeRepo) ListByUser(userID int) ([]Order, error) {
	if f.order.UserID == userID {
		return []Order{f.order}, nil
	}
	return []Order{}, nil
}

func (f *fakeRepo) ListAll() ([]Order, error) { return []Order{f.order}, nil }

func (f *fakeRepo) UpdateStatus(id int, status string) error {
	f.statusCalls = append(f.statusCalls, status)
	f.order.Status = status
	return nil
}

func (f *fakeRepo) UpdateTracking(id int, upd TrackingUpdate, deliveredAt *string) error {
	f.tracking = &upd
	f.deliveredAt = deliveredAt
	if deliveredAt != nil {
		f.order.DeliveredAt = deliveredAt
	}
	if upd.DeliveryConfirmed != nil {
		f.order.DeliveryConfirmed = *upd.DeliveryConfirmed
	}
	return nil
}

func (f *fakeRepo) Delete(id int) error { return nil }

func TestGetForUser_OwnershipCheck(t *testing.T) {
	repo := &fakeRepo{order: Order{ID: 1, UserID: 5, Status: StatusPending}}
	svc := NewService(repo)

	if _, err := svc.GetForUser(5, 1); err != nil {
		t.Fatalf("owner should see the order: %v", err)
	}
	if _, err := svc.GetForUser(6, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("another user must get ErrNotFound, got %v", err)
	}
}

func TestUpdateStatus_RejectsBackwardMove(t *testing.T) {
	repo := &fakeRepo{order: Order{ID: 1, Status: StatusShipped}}
	svc := NewService(repo)

	_, err := svc.UpdateStatus(1, StatusProcessing)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if len(repo.statusCalls) != 0 {
		t.Error("repository must not be touched on a rejected transition")
	}
}

func TestUpdateStatus_Forward(t *testing.T) {
	repo := &fakeRepo{order: Order{ID: 1, Status: StatusPending}}
	svc := NewService(repo)

	ord, err := svc.UpdateStatus(1, StatusProcessing)
	if err != nil {
		t.Fatal(err)
	}
	if ord.Status != StatusProcessing {
		t.Fatalf("expected processing, got %q", ord.Status)
	}
}

func TestUpdateTracking_StampsDeliveredAtOnce(t *testing.T) {
	repo := &fakeRepo{order: Order{ID: 1, Status: StatusShipped}}
	svc := NewService(repo)

	confirmed := true
	ord, err := svc.UpdateTracking(1, TrackingUpdate{DeliveryConfirmed: &confirmed})
	if err != nil {
		t.Fatal(err)
	}
	if ord.DeliveredAt == nil {
		t.Fatal("expected delivered_at to be stamped on first confirmation")
	}
	first := *ord.DeliveredAt

	ord, err = svc.UpdateTracking(1, TrackingUpdate{DeliveryConfirmed: &confirmed})
	if err != nil {
		t.Fatal(err)
	}
	if repo.deliveredAt != nil {
		t.Error("second confirmation must not restamp delivered_at")
	}
	if *ord.DeliveredAt != first {
		t.Errorf("delivered_at changed from %q to %q", first, *ord.DeliveredAt)
	}
}
