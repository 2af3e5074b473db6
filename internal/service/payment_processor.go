package service

import (
	"context"

	"github.com/invoicebuild/invoicebuild/internal/api/dto"
	"github.com/invoicebuild/invoicebuild/internal/domain/invoice"
	"github.com/invoicebuild/invoicebuild/internal/domain/payment"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/idempotency"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/samber/lo"
)

// PaymentService applies payments to invoices and forwards the attached value
// to the invoice owner
type PaymentService interface {
	MakePayment(ctx context.Context, invoiceID int64, req dto.MakePaymentRequest) (*dto.PaymentResponse, error)
	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
	ListPayments(ctx context.Context, invoiceID int64) (*dto.ListResponse[*payment.Payment], error)
}

type paymentService struct {
	ServiceParams
}

func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{
		ServiceParams: params,
	}
}

func (s *paymentService) MakePayment(ctx context.Context, invoiceID int64, req dto.MakePaymentRequest) (*dto.PaymentResponse, error) {
	unlock, err := s.lockForWrite(ctx, "make payment")
	if err != nil {
		return nil, err
	}
	defer unlock()

	payer, err := requireAccount(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.rejectCustody(payer, "payer"); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	params := map[string]interface{}{
		"invoice_id": invoiceID,
		"amount":     req.Amount.String(),
		"payer":      payer,
	}
	if s.Idempotency != nil {
		prior, found, err := s.Idempotency.Lookup(ctx, idempotency.ScopePayment, req.IdempotencyKey, params)
		if err != nil {
			return nil, err
		}
		if found {
			s.Logger.Debugw("replaying payment for idempotency key",
				"invoice_id", invoiceID,
				"idempotency_key", req.IdempotencyKey,
			)
			return prior.(*dto.PaymentResponse), nil
		}
	}

	at := s.Now()
	custody := types.NormalizeAddress(s.Config.Custody.Address)

	var inv *invoice.Invoice
	var receipt *payment.Payment
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.InvoiceRepo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}

		token, err := s.OwnershipRepo.Get(ctx, invoiceID)
		if err != nil {
			return err
		}

		settlement, err := inv.ApplyPayment(req.Amount, at)
		if err != nil {
			return err
		}

		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return err
		}

		custodyBefore, err := s.AccountRepo.Get(ctx, custody)
		if err != nil {
			return err
		}

		// the attached value moves from the payer into custody
		if _, err := s.AccountRepo.Debit(ctx, payer, req.Amount); err != nil {
			return err
		}
		if _, err := s.AccountRepo.Credit(ctx, custody, req.Amount); err != nil {
			return err
		}

		receipt = payment.FromSettlement(inv, token.Owner, payer, settlement, types.GetDefaultBaseModel(ctx))
		receipt.IdempotencyKey = req.IdempotencyKey
		if err := s.PaymentRepo.Create(ctx, receipt); err != nil {
			return err
		}

		if err := s.Disburser.Disburse(types.WithDisbursing(ctx), custody, token.Owner, req.Amount); err != nil {
			s.Logger.Errorw("disbursement failed",
				"invoice_id", invoiceID,
				"payee", token.Owner,
				"amount", req.Amount.String(),
				"error", err,
			)
			return ierr.NewError("disbursement failed").
				WithHint("The payment could not be forwarded to the invoice owner").
				WithReportableDetails(map[string]any{
					"invoice_id": invoiceID,
					"cause":      err.Error(),
				}).
				Mark(ierr.ErrSystem)
		}

		custodyAfter, err := s.AccountRepo.Get(ctx, custody)
		if err != nil {
			return err
		}
		if !custodyAfter.Balance.Equal(custodyBefore.Balance) {
			return ierr.NewError("custody balance changed").
				WithHint("The payment could not be forwarded to the invoice owner").
				WithReportableDetails(map[string]any{
					"invoice_id": invoiceID,
					"before":     custodyBefore.Balance.String(),
					"after":      custodyAfter.Balance.String(),
				}).
				Mark(ierr.ErrSystem)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("applied payment",
		"invoice_id", inv.ID,
		"payment_id", receipt.ID,
		"payer", receipt.Payer,
		"amount", receipt.Amount.String(),
		"paid_amount", inv.PaidAmount.String(),
		"settled", receipt.Settled,
	)

	event := &InvoiceEventPayload{
		InvoiceID:        inv.ID,
		Owner:            receipt.Payee,
		Amount:           inv.Principal,
		PaidAmount:       inv.PaidAmount,
		IsPaid:           inv.IsPaid,
		LateFees:         inv.LateFeesRecorded,
		PaymentID:        receipt.ID,
		PaymentAmount:    lo.ToPtr(receipt.Amount),
		OutstandingAfter: lo.ToPtr(receipt.OutstandingAfter),
	}
	s.publishEvent(ctx, types.EventInvoicePaymentReceived, event)
	if receipt.Settled {
		s.publishEvent(ctx, types.EventInvoicePaid, event)
	}

	resp := &dto.PaymentResponse{
		Payment:           receipt,
		InvoicePaidAmount: inv.PaidAmount,
		InvoiceIsPaid:     inv.IsPaid,
		LateFees:          inv.LateFeesRecorded,
	}

	if s.Idempotency != nil {
		s.Idempotency.Remember(ctx, idempotency.ScopePayment, req.IdempotencyKey, params, resp)
	}
	return resp, nil
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	unlock := s.lockForRead(ctx)
	defer unlock()
	return s.PaymentRepo.Get(ctx, id)
}

func (s *paymentService) ListPayments(ctx context.Context, invoiceID int64) (*dto.ListResponse[*payment.Payment], error) {
	unlock := s.lockForRead(ctx)
	defer unlock()

	// unknown invoices are a not found rather than an empty list
	if _, err := s.InvoiceRepo.Get(ctx, invoiceID); err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(payments), nil
}
