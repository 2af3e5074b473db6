package service

import (
	"context"

	"github.com/invoicebuild/invoicebuild/internal/api/dto"
	"github.com/invoicebuild/invoicebuild/internal/domain/invoice"
	"github.com/invoicebuild/invoicebuild/internal/domain/ownership"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceService issues invoices and answers every read only view over them
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id int64) (*dto.InvoiceResponse, error)
	GetInvoiceSummary(ctx context.Context, id int64, at int64) (*dto.InvoiceSummaryResponse, error)

	// registry views
	TokenURI(ctx context.Context, id int64) (string, error)
	OwnerOf(ctx context.Context, id int64) (string, error)
	InvoicesForOwner(ctx context.Context, owner string) ([]int64, error)
	BalanceOf(ctx context.Context, owner string) (int64, error)
	TotalSupply(ctx context.Context) (int64, error)

	// invoice views
	InvoiceAmount(ctx context.Context, id int64) (decimal.Decimal, error)
	InvoiceBalance(ctx context.Context, id int64) (decimal.Decimal, error)
	InvoiceOutstanding(ctx context.Context, id int64, at int64) (decimal.Decimal, error)
	IsPaid(ctx context.Context, id int64) (bool, error)
	DueAt(ctx context.Context, id int64) (int64, error)
	OverdueInterest(ctx context.Context, id int64) (decimal.Decimal, error)
	LateFees(ctx context.Context, id int64) (decimal.Decimal, error)
	IsOverdue(ctx context.Context, id int64, at int64) (bool, error)
	OverdueFee(ctx context.Context, id int64, at int64) (decimal.Decimal, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	owner, err := requireAccount(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.rejectCustody(owner, "invoice owner"); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	unlock, err := s.lockForWrite(ctx, "create invoice")
	if err != nil {
		return nil, err
	}
	defer unlock()

	var inv *invoice.Invoice
	var token *ownership.Token
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		token, err = s.OwnershipRepo.Mint(ctx, owner, req.MetaURL)
		if err != nil {
			return err
		}

		inv, err = invoice.New(token.ID, req.ToTerms(), types.GetDefaultBaseModel(ctx))
		if err != nil {
			return err
		}

		return s.InvoiceRepo.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"owner", token.Owner,
		"amount", inv.Principal.String(),
		"due_at", inv.DueAt,
	)

	s.publishEvent(ctx, types.EventInvoiceCreated, &InvoiceEventPayload{
		InvoiceID:  inv.ID,
		Owner:      token.Owner,
		Amount:     inv.Principal,
		PaidAmount: inv.PaidAmount,
		LateFees:   inv.LateFeesRecorded,
	})

	return &dto.InvoiceResponse{
		Invoice:  inv,
		Owner:    token.Owner,
		TokenURI: token.TokenURI,
	}, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id int64) (*dto.InvoiceResponse, error) {
	unlock := s.lockForRead(ctx)
	defer unlock()

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	token, err := s.OwnershipRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.InvoiceResponse{
		Invoice:  inv,
		Owner:    token.Owner,
		TokenURI: token.TokenURI,
	}, nil
}

func (s *invoiceService) GetInvoiceSummary(ctx context.Context, id int64, at int64) (*dto.InvoiceSummaryResponse, error) {
	resp, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceSummaryResponse(resp.Invoice, resp.Owner, resp.TokenURI, at), nil
}

func (s *invoiceService) TokenURI(ctx context.Context, id int64) (string, error) {
	token, err := s.getToken(ctx, id)
	if err != nil {
		return "", err
	}
	return token.TokenURI, nil
}

func (s *invoiceService) OwnerOf(ctx context.Context, id int64) (string, error) {
	token, err := s.getToken(ctx, id)
	if err != nil {
		return "", err
	}
	return token.Owner, nil
}

func (s *invoiceService) InvoicesForOwner(ctx context.Context, owner string) ([]int64, error) {
	unlock := s.lockForRead(ctx)
	defer unlock()
	return s.OwnershipRepo.ListByOwner(ctx, owner)
}

func (s *invoiceService) BalanceOf(ctx context.Context, owner string) (int64, error) {
	unlock := s.lockForRead(ctx)
	defer unlock()
	return s.OwnershipRepo.CountByOwner(ctx, owner)
}

func (s *invoiceService) TotalSupply(ctx context.Context) (int64, error) {
	unlock := s.lockForRead(ctx)
	defer unlock()
	return s.OwnershipRepo.TotalSupply(ctx)
}

func (s *invoiceService) InvoiceAmount(ctx context.Context, id int64) (decimal.Decimal, error) {
	return s.decimalView(ctx, id, func(inv *invoice.Invoice) decimal.Decimal { return inv.Principal })
}

func (s *invoiceService) InvoiceBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	return s.decimalView(ctx, id, func(inv *invoice.Invoice) decimal.Decimal { return inv.WithdrawableBalance })
}

func (s *invoiceService) InvoiceOutstanding(ctx context.Context, id int64, at int64) (decimal.Decimal, error) {
	return s.decimalView(ctx, id, func(inv *invoice.Invoice) decimal.Decimal { return inv.Outstanding(at) })
}

func (s *invoiceService) OverdueInterest(ctx context.Context, id int64) (decimal.Decimal, error) {
	return s.decimalView(ctx, id, func(inv *invoice.Invoice) decimal.Decimal { return inv.AnnualInterestRate })
}

func (s *invoiceService) LateFees(ctx context.Context, id int64) (decimal.Decimal, error) {
	return s.decimalView(ctx, id, func(inv *invoice.Invoice) decimal.Decimal { return inv.LateFeesRecorded })
}

func (s *invoiceService) OverdueFee(ctx context.Context, id int64, at int64) (decimal.Decimal, error) {
	return s.decimalView(ctx, id, func(inv *invoice.Invoice) decimal.Decimal { return inv.OverdueFee(at) })
}

func (s *invoiceService) IsPaid(ctx context.Context, id int64) (bool, error) {
	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return false, err
	}
	return inv.IsPaid, nil
}

func (s *invoiceService) IsOverdue(ctx context.Context, id int64, at int64) (bool, error) {
	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return false, err
	}
	return inv.IsOverdue(at), nil
}

func (s *invoiceService) DueAt(ctx context.Context, id int64) (int64, error) {
	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return 0, err
	}
	return inv.DueAt, nil
}

func (s *invoiceService) decimalView(ctx context.Context, id int64, view func(*invoice.Invoice) decimal.Decimal) (decimal.Decimal, error) {
	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return view(inv), nil
}

func (s *invoiceService) getInvoice(ctx context.Context, id int64) (*invoice.Invoice, error) {
	unlock := s.lockForRead(ctx)
	defer unlock()
	return s.InvoiceRepo.Get(ctx, id)
}

func (s *invoiceService) getToken(ctx context.Context, id int64) (*ownership.Token, error) {
	unlock := s.lockForRead(ctx)
	defer unlock()
	return s.OwnershipRepo.Get(ctx, id)
}
