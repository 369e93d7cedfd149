package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/hotelpos-api/internal/domain/billing"
	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/domain/enum"
	"github.com/sangkips/hotelpos-api/internal/domain/repository"
	infraRepo "github.com/sangkips/hotelpos-api/internal/infrastructure/repository"
	"github.com/sangkips/hotelpos-api/pkg/apperror"
	"github.com/sangkips/hotelpos-api/pkg/pagination"
	"github.com/sangkips/hotelpos-api/pkg/pra"
	"github.com/sangkips/hotelpos-api/pkg/utils"
)

// SettingsProvider returns the settings of the business in ctx.
type SettingsProvider interface {
	Current(ctx context.Context) (entity.Settings, error)
}

// InvoiceService prices, saves and edits invoices.
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	usinRepo    repository.UsinRepository
	settings    SettingsProvider
	pra         pra.Submitter
	validate    *validator.Validate
	loc         *time.Location
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	usinRepo repository.UsinRepository,
	settings SettingsProvider,
	praClient pra.Submitter,
	loc *time.Location,
) *InvoiceService {
	if loc == nil {
		loc = time.UTC
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		usinRepo:    usinRepo,
		settings:    settings,
		pra:         praClient,
		validate:    NewValidator(),
		loc:         loc,
		now:         time.Now,
	}
}

// InvoiceLineInput is one line as entered on the POS.
type InvoiceLineInput struct {
	ItemCode  string          `validate:"required,max=100"`
	ItemName  string          `validate:"required,max=255"`
	UnitPrice decimal.Decimal `validate:"gte=0"`
	Quantity  int             `validate:"min=1"`
	// IsRoom overrides detection from the item name.
	IsRoom *bool
}

// StayInput carries hotel stay details.
type StayInput struct {
	CheckIn          time.Time
	CheckOut         time.Time
	TimeIn           *string
	TimeOut          *string
	EmergencyContact *string
	Nationality      *string
}

// BuyerInput identifies the customer.
type BuyerInput struct {
	Name    string `validate:"max=255"`
	PNTN    string `validate:"max=50"`
	CNIC    string `validate:"max=50"`
	Phone   string `validate:"max=50"`
	Address string
}

// InvoiceInput represents a new invoice or a quote request
type InvoiceInput struct {
	USIN        string `validate:"max=100"`
	DateTime    *time.Time
	Buyer       BuyerInput
	PaymentMode enum.PaymentMode
	Discount    decimal.Decimal `validate:"gte=0"`
	Settlement  billing.Settlement
	Items       []InvoiceLineInput `validate:"dive"`
	Stay        *StayInput
}

// CreditEditInput changes a saved invoice. Nil fields are left as stored.
type CreditEditInput struct {
	DateTime    *time.Time
	Buyer       *BuyerInput
	PaymentMode *enum.PaymentMode
	Discount    *decimal.Decimal `validate:"omitempty,gte=0"`
	Settlement  *billing.Settlement
	Items       *[]InvoiceLineInput
	Stay        *StayInput
}

// QuoteLine is a priced line of a quote.
type QuoteLine struct {
	ItemCode  string          `json:"item_code"`
	ItemName  string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	IsRoom    bool            `json:"is_room"`
}

// Quote is the priced state of an invoice before it is saved.
type Quote struct {
	Layout string                `json:"layout"`
	Nights int                   `json:"nights,omitempty"`
	Lines  []QuoteLine           `json:"lines"`
	Totals billing.InvoiceTotals `json:"totals"`
}

// InvoiceResult is returned by Create and CreditUpdate. On a failed PRA
// submission it still carries the computed totals.
type InvoiceResult struct {
	Invoice *entity.Invoice       `json:"invoice,omitempty"`
	Totals  billing.InvoiceTotals `json:"totals"`
	Deltas  []billing.StockDelta  `json:"stock_changes,omitempty"`
}

// Quote prices the input without saving anything.
func (s *InvoiceService) Quote(ctx context.Context, input *InvoiceInput) (*Quote, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, apperror.FromValidator(err)
	}

	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	draft := s.newDraft(settings, input)
	quote := &Quote{
		Layout: draft.Layout.String(),
		Totals: draft.Totals(),
		Lines:  quoteLines(draft.Items()),
	}
	if input.Stay != nil {
		quote.Nights = billing.Nights(input.Stay.CheckIn, input.Stay.CheckOut)
	}
	return quote, nil
}

// Create saves a new invoice. When the business is linked to PRA the
// invoice is submitted first and only saved once PRA accepts it.
func (s *InvoiceService) Create(ctx context.Context, input *InvoiceInput) (*InvoiceResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, apperror.FromValidator(err)
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Invoice must have at least 1 item.")
	}

	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	draft := s.newDraft(settings, input)
	totals := draft.Totals()
	result := &InvoiceResult{Totals: totals}

	if settings.LockBookedRoom && input.Stay != nil {
		if err := s.checkRoomsFree(ctx, draft.Items(), input.Stay.CheckIn); err != nil {
			return result, err
		}
	}

	usin, err := s.resolveUSIN(ctx, input.USIN, bool(settings.MakeInvoiceEditable))
	if err != nil {
		return result, err
	}

	invoice := &entity.Invoice{
		USIN:        usin,
		DateTime:    s.invoiceTime(input.DateTime),
		PaymentMode: paymentModeOrCash(input.PaymentMode),
		InvoiceType: enum.InvoiceTypeNew,
	}
	applyBuyer(invoice, &input.Buyer)
	applyStay(invoice, input.Stay)
	if employeeID, ok := infraRepo.GetEmployeeID(ctx); ok {
		invoice.CreatedBy = &employeeID
	}
	fillInvoice(invoice, draft.Items(), totals, settings.TaxConfig())

	if err := s.submitToPRA(ctx, settings, invoice, totals); err != nil {
		return result, err
	}

	var deltas []billing.StockDelta
	if settings.ShowMenuStockQty {
		deltas = draft.StockDeltas()
	}

	if err := s.invoiceRepo.Create(ctx, invoice, deltas); err != nil {
		log.Printf("Error saving invoice %s (PRA #%s): %v", invoice.USIN, invoice.PRAInvoiceNumber, err)
		return result, apperror.NewInternalError("Failed to save invoice", err)
	}

	result.Invoice = invoice
	result.Deltas = deltas
	return result, nil
}

// CreditUpdate applies an edit to a saved invoice. The stored service charge
// stays as saved unless items or the stay change; stock moves by the
// difference between the saved and the edited quantities.
func (s *InvoiceService) CreditUpdate(ctx context.Context, usin string, input *CreditEditInput) (*InvoiceResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, apperror.FromValidator(err)
	}

	if input.Items != nil {
		for i := range *input.Items {
			if err := s.validate.Struct(&(*input.Items)[i]); err != nil {
				return nil, apperror.FromValidator(err)
			}
		}
	}

	usin = strings.TrimSpace(usin)
	stored, err := s.invoiceRepo.GetByUSIN(ctx, usin)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	draft := billing.NewDraft(settings.TaxConfig(), settings.ChargeConfig(stored.Discount), settings.Layout())
	draft.LoadForCredit(storedLines(stored), stored.ServiceCharges, billing.PaidSettlement(stored.Paid))

	if input.Items != nil {
		draft.SetItems(lineItems(*input.Items))
	}
	if input.Stay != nil {
		draft.SetStay(input.Stay.CheckIn, input.Stay.CheckOut)
	} else if input.Items != nil && stored.CheckInDate != nil && stored.CheckOutDate != nil {
		draft.SetStay(*stored.CheckInDate, *stored.CheckOutDate)
	}
	if input.Discount != nil {
		draft.SetDiscount(*input.Discount)
	}
	if input.Settlement != nil {
		draft.Settlement = *input.Settlement
	}

	if len(draft.Items()) == 0 {
		return nil, apperror.NewBadRequestError("Invoice must have at least 1 item.")
	}

	totals := draft.Totals()
	result := &InvoiceResult{Totals: totals}

	invoice := *stored
	invoice.Items = nil
	invoice.InvoiceType = enum.InvoiceTypeCredit
	ref := stored.USIN
	invoice.RefUSIN = &ref
	if input.DateTime != nil {
		invoice.DateTime = input.DateTime.In(s.loc)
	}
	if input.Buyer != nil {
		applyBuyer(&invoice, input.Buyer)
	}
	if input.PaymentMode != nil {
		invoice.PaymentMode = paymentModeOrCash(*input.PaymentMode)
	}
	if input.Stay != nil {
		applyStay(&invoice, input.Stay)
	}
	fillInvoice(&invoice, draft.Items(), totals, settings.TaxConfig())

	if err := s.submitToPRA(ctx, settings, &invoice, totals); err != nil {
		return result, err
	}

	var deltas []billing.StockDelta
	if settings.ShowMenuStockQty {
		deltas = draft.StockDeltas()
	}

	if err := s.invoiceRepo.Replace(ctx, &invoice, deltas); err != nil {
		log.Printf("Error updating invoice %s: %v", invoice.USIN, err)
		return result, apperror.NewInternalError("Failed to update invoice", err)
	}

	result.Invoice = &invoice
	result.Deltas = deltas
	return result, nil
}

// Lookup finds an invoice by USIN, or else the latest one whose buyer name
// contains buyerName.
func (s *InvoiceService) Lookup(ctx context.Context, usin, buyerName string) (*entity.Invoice, error) {
	usin = strings.TrimSpace(usin)
	buyerName = strings.TrimSpace(buyerName)
	if usin == "" && buyerName == "" {
		return nil, apperror.NewBadRequestError("Enter an invoice number or customer name.")
	}

	var (
		invoice *entity.Invoice
		err     error
	)
	if usin != "" {
		invoice, err = s.invoiceRepo.GetByUSIN(ctx, usin)
	} else {
		invoice, err = s.invoiceRepo.GetLatestByBuyerName(ctx, buyerName)
	}
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoicesInput filters the invoice listing. Dates are whole days in
// the business time zone.
type ListInvoicesInput struct {
	From      string
	To        string
	Search    string
	WithItems bool
	Params    *pagination.PaginationParams
}

// List returns invoices newest first.
func (s *InvoiceService) List(ctx context.Context, input *ListInvoicesInput) (*pagination.PaginatedResult[entity.Invoice], error) {
	from, to, err := dayRange(input.From, input.To, s.loc)
	if err != nil {
		return nil, err
	}

	params := input.Params
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	invoices, total, err := s.invoiceRepo.List(ctx, &repository.InvoiceFilterParams{
		Pagination: params,
		From:       from,
		To:         to,
		Search:     input.Search,
		WithItems:  input.WithItems,
	})
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(invoices, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// Delete removes an invoice. Stock is not restored.
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.invoiceRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFoundError("Invoice")
	}
	return err
}

// PeekUSIN returns the next invoice number without consuming it.
func (s *InvoiceService) PeekUSIN(ctx context.Context) (string, error) {
	n, err := s.usinRepo.Peek(ctx)
	if err != nil {
		return "", err
	}
	return utils.FormatUSIN(n), nil
}

// BookedRooms returns the room codes occupied on date.
func (s *InvoiceService) BookedRooms(ctx context.Context, date string) ([]string, error) {
	if strings.TrimSpace(date) == "" {
		return []string{}, nil
	}
	day, err := time.ParseInLocation("2006-01-02", date, s.loc)
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid date, expected YYYY-MM-DD")
	}
	codes, err := s.invoiceRepo.BookedRoomCodes(ctx, day)
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

func (s *InvoiceService) newDraft(settings entity.Settings, input *InvoiceInput) *billing.Draft {
	draft := billing.NewDraft(settings.TaxConfig(), settings.ChargeConfig(input.Discount), settings.Layout())
	if input.Stay != nil {
		draft.SetStay(input.Stay.CheckIn, input.Stay.CheckOut)
	}
	draft.SetItems(lineItems(input.Items))
	draft.Settlement = input.Settlement
	return draft
}

func (s *InvoiceService) checkRoomsFree(ctx context.Context, items []billing.LineItem, checkIn time.Time) error {
	booked, err := s.invoiceRepo.BookedRoomCodes(ctx, checkIn)
	if err != nil {
		return err
	}
	taken := make(map[string]bool, len(booked))
	for _, code := range booked {
		taken[code] = true
	}
	for _, item := range items {
		if item.IsRoomType && taken[item.Code] {
			return apperror.NewConflictError(fmt.Sprintf("%s is already booked on %s", item.Name, checkIn.Format("2006-01-02")))
		}
	}
	return nil
}

// resolveUSIN returns the number to save under. A number typed by the
// cashier is kept when invoice numbers are editable; otherwise, or when the
// typed number is the one that was offered, the counter is advanced.
func (s *InvoiceService) resolveUSIN(ctx context.Context, typed string, editable bool) (string, error) {
	typed = strings.TrimSpace(typed)
	if typed != "" && editable {
		peeked, err := s.usinRepo.Peek(ctx)
		if err != nil {
			return "", err
		}
		if typed != utils.FormatUSIN(peeked) {
			existing, err := s.invoiceRepo.GetByUSIN(ctx, typed)
			if err != nil {
				return "", err
			}
			if existing != nil {
				return "", apperror.NewConflictError("Invoice " + typed + " already exists")
			}
			return typed, nil
		}
	}

	n, err := s.usinRepo.Next(ctx)
	if err != nil {
		return "", apperror.NewInternalError("Failed to allocate invoice number", err)
	}
	return utils.FormatUSIN(n), nil
}

func (s *InvoiceService) invoiceTime(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return s.now().In(s.loc)
	}
	return t.In(s.loc)
}

// submitToPRA reports the invoice when the business is linked and records
// the number PRA assigns. Unlinked invoices use their USIN.
func (s *InvoiceService) submitToPRA(ctx context.Context, settings entity.Settings, invoice *entity.Invoice, totals billing.InvoiceTotals) error {
	if !settings.PRALinked {
		invoice.PRAInvoiceNumber = invoice.USIN
		return nil
	}

	payload := praInvoice(settings, invoice, totals)
	res, err := s.pra.Submit(ctx, pra.ParseEnvironment(settings.PRAAPIType), settings.PRAToken, payload)
	if err != nil {
		var rejected *pra.RejectedError
		if errors.As(err, &rejected) {
			return apperror.NewUpstreamError("PRA Error: "+rejected.Response, err)
		}
		log.Printf("PRA submission failed for USIN %s: %v", invoice.USIN, err)
		return apperror.NewUpstreamError("PRA service unavailable, invoice not saved", err)
	}

	invoice.PRAInvoiceNumber = res.InvoiceNumber
	return nil
}

// lineItems converts input lines, detecting rooms by name unless told.
func lineItems(in []InvoiceLineInput) []billing.LineItem {
	items := make([]billing.LineItem, 0, len(in))
	for _, l := range in {
		isRoom := billing.IsRoomName(l.ItemName)
		if l.IsRoom != nil {
			isRoom = *l.IsRoom
		}
		items = append(items, billing.LineItem{
			Code:       strings.TrimSpace(l.ItemCode),
			Name:       strings.TrimSpace(l.ItemName),
			UnitPrice:  l.UnitPrice,
			Quantity:   l.Quantity,
			IsRoomType: isRoom,
		})
	}
	return items
}

func storedLines(invoice *entity.Invoice) []billing.LineItem {
	items := make([]billing.LineItem, 0, len(invoice.Items))
	for _, it := range invoice.Items {
		items = append(items, billing.LineItem{
			Code:       it.ItemCode,
			Name:       it.ItemName,
			UnitPrice:  it.UnitPrice,
			Quantity:   it.Quantity,
			IsRoomType: it.IsRoom,
		})
	}
	return items
}

func quoteLines(items []billing.LineItem) []QuoteLine {
	lines := make([]QuoteLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, QuoteLine{
			ItemCode:  it.Code,
			ItemName:  it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  billing.Round2(it.Subtotal()),
			IsRoom:    it.IsRoomType,
		})
	}
	return lines
}

// fillInvoice copies the totals and per-line tax split onto the invoice.
// Each line's sale value and tax follow the same inclusive or exclusive
// rule as the invoice totals.
func fillInvoice(invoice *entity.Invoice, items []billing.LineItem, totals billing.InvoiceTotals, tax billing.TaxConfig) {
	invoice.TotalSaleValue = totals.NetItemCost
	invoice.TotalTaxCharged = totals.GSTAmount
	invoice.Discount = totals.Discount
	invoice.POSCharges = totals.POSCharge
	invoice.ServiceCharges = totals.ServiceChargeAmount
	invoice.FurtherTax = billing.Round2(totals.POSCharge.Add(totals.ServiceChargeAmount))
	invoice.TotalBillAmount = totals.TotalPayable
	invoice.TotalQuantity = totals.ItemCount
	invoice.Paid = totals.Paid
	invoice.Balance = totals.Balance

	invoice.Items = make([]entity.InvoiceItem, 0, len(items))
	for _, it := range items {
		net, gst := billing.SplitGST(it.Subtotal(), tax)
		invoice.Items = append(invoice.Items, entity.InvoiceItem{
			ItemCode:    it.Code,
			ItemName:    it.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     tax.GSTPercentage,
			SaleValue:   net,
			TaxCharged:  gst,
			TotalAmount: net.Add(gst),
			IsRoom:      it.IsRoomType,
		})
	}
}

func praInvoice(settings entity.Settings, invoice *entity.Invoice, totals billing.InvoiceTotals) pra.Invoice {
	posID, _ := parsePOSID(settings.PRAPosID)
	invoiceType := int(invoice.InvoiceType)

	buyer := invoice.BuyerName
	if buyer == "" {
		buyer = pra.WalkInCustomer
	}

	items := make([]pra.Item, 0, len(invoice.Items))
	for _, it := range invoice.Items {
		items = append(items, pra.Item{
			ItemCode:    it.ItemCode,
			ItemName:    it.ItemName,
			PCTCode:     pra.DefaultPCTCode,
			Quantity:    it.Quantity,
			TaxRate:     pra.Amount(it.TaxRate),
			SaleValue:   pra.Amount(it.SaleValue),
			Discount:    pra.Amount(decimal.Zero),
			FurtherTax:  pra.Amount(decimal.Zero),
			TaxCharged:  pra.Amount(it.TaxCharged),
			TotalAmount: pra.Amount(it.TotalAmount),
			InvoiceType: invoiceType,
			RefUSIN:     invoice.RefUSIN,
		})
	}

	return pra.Invoice{
		POSID:            posID,
		USIN:             invoice.USIN,
		RefUSIN:          invoice.RefUSIN,
		DateTime:         pra.FormatDateTime(invoice.DateTime),
		BuyerName:        buyer,
		BuyerPNTN:        invoice.BuyerPNTN,
		BuyerCNIC:        invoice.BuyerCNIC,
		BuyerPhoneNumber: invoice.BuyerPhone,
		TotalSaleValue:   pra.Amount(totals.NetItemCost),
		TotalTaxCharged:  pra.Amount(totals.GSTAmount),
		Discount:         pra.Amount(totals.Discount),
		FurtherTax:       pra.Amount(invoice.FurtherTax),
		TotalBillAmount:  pra.Amount(totals.TotalPayable),
		TotalQuantity:    totals.ItemCount,
		PaymentMode:      invoice.PaymentMode.PRACode(),
		InvoiceType:      invoiceType,
		Items:            items,
	}
}

func parsePOSID(s string) (int, error) {
	var id int
	_, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &id)
	return id, err
}

func applyBuyer(invoice *entity.Invoice, b *BuyerInput) {
	invoice.BuyerName = strings.TrimSpace(b.Name)
	if invoice.BuyerName == "" {
		invoice.BuyerName = pra.WalkInCustomer
	}
	invoice.BuyerPNTN = strings.TrimSpace(b.PNTN)
	invoice.BuyerCNIC = strings.TrimSpace(b.CNIC)
	invoice.BuyerPhone = strings.TrimSpace(b.Phone)
	invoice.Address = strings.TrimSpace(b.Address)
}

func applyStay(invoice *entity.Invoice, stay *StayInput) {
	if stay == nil {
		return
	}
	in, out := stay.CheckIn, stay.CheckOut
	invoice.CheckInDate = &in
	invoice.CheckOutDate = &out
	invoice.TimeIn = stay.TimeIn
	invoice.TimeOut = stay.TimeOut
	invoice.EmergencyContact = stay.EmergencyContact
	invoice.Nationality = stay.Nationality
}

func paymentModeOrCash(m enum.PaymentMode) enum.PaymentMode {
	if !m.Valid() {
		return enum.PaymentModeCash
	}
	return m
}

// dayRange turns YYYY-MM-DD bounds into the start of the first day and the
// last second of the last day. Empty bounds are open.
func dayRange(from, to string, loc *time.Location) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if strings.TrimSpace(from) != "" {
		t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(from), loc)
		if err != nil {
			return nil, nil, apperror.NewBadRequestError("Invalid from date, expected YYYY-MM-DD")
		}
		start = &t
	}
	if strings.TrimSpace(to) != "" {
		t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(to), loc)
		if err != nil {
			return nil, nil, apperror.NewBadRequestError("Invalid to date, expected YYYY-MM-DD")
		}
		t = t.Add(24*time.Hour - time.Second)
		end = &t
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, apperror.NewBadRequestError("from date must not be after to date")
	}
	return start, end, nil
}
