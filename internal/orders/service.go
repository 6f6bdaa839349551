// Package orders implements public order intake and the admin read path.
// Contact fields are encoded before they reach storage and decoded only
// for callers that already passed the admin token gate.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/satriastudio/studio-be/internal/fieldcodec"
	"github.com/satriastudio/studio-be/internal/logging"
	"github.com/satriastudio/studio-be/internal/models"
	"github.com/satriastudio/studio-be/internal/models/dto"
	"github.com/satriastudio/studio-be/internal/storage"
	"github.com/satriastudio/studio-be/internal/validation"
)

// ErrValidation wraps intake validation failures.
var ErrValidation = errors.New("invalid order")

// FieldStatus records how each sensitive field of one order was decoded.
type FieldStatus struct {
	Name     fieldcodec.Status
	WhatsApp fieldcodec.Status
	Detail   fieldcodec.Status
}

// Degraded reports whether any field fell back to its stored form.
func (s FieldStatus) Degraded() bool {
	return s.Name == fieldcodec.StatusFailed ||
		s.WhatsApp == fieldcodec.StatusFailed ||
		s.Detail == fieldcodec.StatusFailed
}

// DecodedOrder is an order with clear-text contact fields.
type DecodedOrder struct {
	models.Order
	Status FieldStatus `json:"-"`
}

// Service owns order persistence and field encoding.
type Service struct {
	store storage.OrderStore
	codec *fieldcodec.Codec
}

// NewService creates an order service that encodes with codec before writing to store.
func NewService(store storage.OrderStore, codec *fieldcodec.Codec) *Service {
	return &Service{store: store, codec: codec}
}

// Submit validates req, encodes the contact fields and persists the order.
func (s *Service) Submit(ctx context.Context, req dto.CreateOrderRequest) (models.Order, error) {
	req = normalize(req)
	if err := validation.Struct(req); err != nil {
		return models.Order{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	order := models.Order{Service: req.Service, Deadline: req.Deadline}
	fields := []struct {
		name string
		in   string
		out  *string
	}{
		{"name", req.Name, &order.Name},
		{"whatsapp", req.WhatsApp, &order.WhatsApp},
		{"detail", req.Detail, &order.Detail},
	}
	for _, f := range fields {
		enc, err := s.codec.Encode(f.in)
		if err != nil {
			return models.Order{}, fmt.Errorf("encode %s: %w", f.name, err)
		}
		if !s.codec.Valid(enc) {
			return models.Order{}, fmt.Errorf("encode %s: produced value does not decode", f.name)
		}
		*f.out = enc
	}

	created, err := s.store.CreateOrder(ctx, order)
	if err != nil {
		return models.Order{}, fmt.Errorf("create order: %w", err)
	}
	logging.Logger.WithFields(logrus.Fields{"order_id": created.ID, "service": created.Service}).Info("order received")
	return created, nil
}

// List returns every order newest first with contact fields decoded. A field
// that cannot be decoded keeps its stored value and is reported in Status.
func (s *Service) List(ctx context.Context) ([]DecodedOrder, error) {
	stored, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	out := make([]DecodedOrder, 0, len(stored))
	for _, o := range stored {
		d := s.decode(o)
		if d.Status.Degraded() {
			logging.Logger.WithFields(logrus.Fields{
				"order_id": o.ID,
				"name":     d.Status.Name.String(),
				"whatsapp": d.Status.WhatsApp.String(),
				"detail":   d.Status.Detail.String(),
			}).Warn("order fields failed to decode")
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Service) decode(o models.Order) DecodedOrder {
	name := s.codec.DecodeField(o.Name)
	whatsapp := s.codec.DecodeField(o.WhatsApp)
	detail := s.codec.DecodeField(o.Detail)

	o.Name = name.Value
	o.WhatsApp = whatsapp.Value
	o.Detail = detail.Value
	return DecodedOrder{
		Order:  o,
		Status: FieldStatus{Name: name.Status, WhatsApp: whatsapp.Status, Detail: detail.Status},
	}
}

func normalize(req dto.CreateOrderRequest) dto.CreateOrderRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.WhatsApp = strings.TrimSpace(req.WhatsApp)
	req.Service = strings.TrimSpace(req.Service)
	req.Detail = strings.TrimSpace(req.Detail)
	if req.Deadline != nil {
		d := strings.TrimSpace(*req.Deadline)
		if d == "" {
			req.Deadline = nil
		} else {
			req.Deadline = &d
		}
	}
	return req
}
