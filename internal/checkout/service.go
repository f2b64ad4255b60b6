package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/saraswati-stationery/stationery-backend/internal/gateway"
	"github.com/saraswati-stationery/stationery-backend/internal/loyalty"
	"github.com/saraswati-stationery/stationery-backend/internal/order"
	"github.com/saraswati-stationery/stationery-backend/internal/product"
)

// Gateway is the slice of the payment client the orchestrator uses.
type Gateway interface {
	Initiate(ctx context.Context, req gateway.InitiateRequest) (gateway.InitiateResponse, error)
	Lookup(ctx context.Context, pidx string) (gateway.LookupResponse, error)
}

// Service sequences assemble -> pay -> commit. Cash on delivery commits
// immediately; the gateway path parks a pending snapshot and commits when
// the lookup confirms the payment.
type Service struct {
	store      Store
	gateway    Gateway
	returnURL  string
	websiteURL string
}

func NewService(store Store, gw Gateway, returnURL, websiteURL string) *Service {
	return &Service{store: store, gateway: gw, returnURL: returnURL, websiteURL: websiteURL}
}

// Assemble validates the cart against live stock and prices a draft. It has
// no side effects; nothing is reserved until commit.
func (s *Service) Assemble(userID int, shipping ShippingInfo, deliveryOption string) (Draft, error) {
	charge, ok := deliveryCharges[deliveryOption]
	if !ok {
		return Draft{}, ErrInvalidDeliveryOption
	}

	lines, err := s.store.CartLines(userID)
	if err != nil {
		return Draft{}, err
	}
	if len(lines) == 0 {
		return Draft{}, ErrEmptyCart
	}

	draftLines := make([]DraftLine, 0, len(lines))
	subtotal := 0.0
	for _, ln := range lines {
		p, err := s.store.GetProduct(ln.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return Draft{}, &ProductGoneError{ProductID: ln.ProductID}
			}
			return Draft{}, err
		}
		if ln.Quantity > p.Stock {
			return Draft{}, &OutOfStockError{ProductID: ln.ProductID}
		}

		lineSubtotal := ln.UnitPrice * float64(ln.Quantity)
		draftLines = append(draftLines, DraftLine{
			ProductID: ln.ProductID,
			Name:      p.Name,
			UnitPrice: ln.UnitPrice,
			Quantity:  ln.Quantity,
			Subtotal:  lineSubtotal,
		})
		subtotal += lineSubtotal
	}

	card, err := s.store.LoyaltyCard(userID)
	if err != nil {
		return Draft{}, err
	}

	redeem := 0
	if card.Points >= redeemFloor {
		redeem = card.Points
		if redeem > redeemCap {
			redeem = redeemCap
		}
	}
	discount := float64(redeem) / pointsPerRupee
	// the discount never exceeds the amount payable, so total stays >= 0
	if payable := subtotal + charge; discount > payable {
		discount = payable
		redeem = int(discount * pointsPerRupee)
	}

	return Draft{
		UserID:         userID,
		Shipping:       shipping,
		DeliveryOption: deliveryOption,
		Lines:          draftLines,
		Subtotal:       subtotal,
		DeliveryCharge: charge,
		Discount:       discount,
		Total:          subtotal + charge - discount,
		PointsToRedeem: redeem,
	}, nil
}

// ConfirmCOD commits a draft with cash-on-delivery payment. Payment is
// trivially "completed"; the courier collects on the doorstep.
func (s *Service) ConfirmCOD(draft Draft) (order.Order, error) {
	return s.commit(draft, order.PaymentMethodCOD, false)
}

// InitiateGatewayPayment asks the gateway for a payment page and parks the
// draft as the pending snapshot. No order exists yet; the snapshot is all
// that survives the redirect.
func (s *Service) InitiateGatewayPayment(ctx context.Context, draft Draft, customer gateway.CustomerInfo) (string, error) {
	orderRef := uuid.NewString()
	resp, err := s.gateway.Initiate(ctx, gateway.InitiateRequest{
		ReturnURL:         s.returnURL,
		WebsiteURL:        s.websiteURL,
		Amount:            int64(math.Round(draft.Total * 100)),
		PurchaseOrderID:   orderRef,
		PurchaseOrderName: "Saraswati Stationery order",
		CustomerInfo:      customer,
	})
	if err != nil {
		return "", err
	}

	err = s.store.PutPending(draft.UserID, PendingCheckout{
		Pidx:      resp.Pidx,
		OrderRef:  orderRef,
		Draft:     draft,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	return resp.PaymentURL, nil
}

// CompleteGatewayPayment resumes a suspended checkout after the gateway
// redirect. Only the authenticated lookup decides whether the payment went
// through; the pidx from the callback is just matched against the snapshot.
// On any failure the snapshot stays put so the customer can retry without
// re-entering shipping details.
func (s *Service) CompleteGatewayPayment(ctx context.Context, userID int, pidx string) (order.Order, error) {
	pending, err := s.store.GetPending(userID)
	if err != nil {
		return order.Order{}, err
	}
	if pidx == "" || pidx != pending.Pidx {
		return order.Order{}, ErrPaymentNotCompleted
	}

	look, err := s.gateway.Lookup(ctx, pending.Pidx)
	if err != nil {
		return order.Order{}, fmt.Errorf("gateway lookup: %w", err)
	}
	if look.Status != gateway.StatusCompleted {
		return order.Order{}, ErrPaymentNotCompleted
	}

	return s.commit(pending.Draft, order.PaymentMethodGateway, true)
}

// commit is the single exit into persistence. Stock is re-validated by the
// guarded decrement, then the order, ledger movements and cart clear all ride
// one transaction. The ledger debits before it credits so the balance never
// dips negative even inside the transaction.
func (s *Service) commit(draft Draft, paymentMethod string, clearPending bool) (order.Order, error) {
	pointsEarned := loyalty.PointsFor(draft.Subtotal)

	var placed order.Order
	err := s.store.Commit(func(tx Tx) error {
		for _, ln := range draft.Lines {
			if err := tx.DecrementStock(ln.ProductID, ln.Quantity); err != nil {
				switch {
				case errors.Is(err, product.ErrOutOfStock):
					return &OutOfStockError{ProductID: ln.ProductID}
				case errors.Is(err, product.ErrNotFound):
					return &ProductGoneError{ProductID: ln.ProductID}
				}
				return err
			}
		}

		items := make([]order.LineItem, 0, len(draft.Lines))
		for _, ln := range draft.Lines {
			items = append(items, order.LineItem{
				ProductID: ln.ProductID,
				Name:      ln.Name,
				Price:     ln.UnitPrice,
				Quantity:  ln.Quantity,
				Subtotal:  ln.Subtotal,
			})
		}

		created, err := tx.CreateOrder(order.Order{
			UserID:         draft.UserID,
			FullName:       draft.Shipping.FullName,
			Street:         draft.Shipping.Street,
			City:           draft.Shipping.City,
			Phone:          draft.Shipping.Phone,
			Subtotal:       draft.Subtotal,
			DeliveryCharge: draft.DeliveryCharge,
			Discount:       draft.Discount,
			Total:          draft.Total,
			DeliveryOption: draft.DeliveryOption,
			PaymentMethod:  paymentMethod,
			PaymentStatus:  order.PaymentCompleted,
			Status:         order.StatusPending,
			PointsEarned:   pointsEarned,
			PointsRedeemed: draft.PointsToRedeem,
			CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		}, items)
		if err != nil {
			return err
		}

		if draft.PointsToRedeem > 0 {
			if err := tx.RedeemPoints(draft.UserID, draft.PointsToRedeem, fmt.Sprintf("Redeemed on order #%d", created.ID)); err != nil {
				return err
			}
		}
		if err := tx.EarnPoints(draft.UserID, pointsEarned, fmt.Sprintf("Earned on order #%d", created.ID)); err != nil {
			return err
		}

		if err := tx.ClearCart(draft.UserID); err != nil {
			return err
		}
		if clearPending {
			if err := tx.ClearPending(draft.UserID); err != nil {
				return err
			}
		}

		placed = created
		return nil
	})
	if err != nil {
		return order.Order{}, wrapCommitError(err)
	}
	return placed, nil
}

// wrapCommitError lets the checkout taxonomy through untouched and folds
// everything else into a PlacementError.
func wrapCommitError(err error) error {
	var oos *OutOfStockError
	var gone *ProductGoneError
	if errors.As(err, &oos) || errors.As(err, &gone) || errors.Is(err, loyalty.ErrInsufficientPoints) {
		return err
	}
	return &PlacementError{Err: err}
}
