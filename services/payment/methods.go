package payment

import "tourly/models"

// MethodRegistry maps method ids to their fee rate and display metadata.
// It is built once at construction and never mutated afterwards.
type MethodRegistry struct {
	methods map[string]models.PaymentMethod
	order   []string
}

// NewMethodRegistry copies the given methods into an immutable registry.
func NewMethodRegistry(methods []models.PaymentMethod) *MethodRegistry {
	reg := &MethodRegistry{methods: make(map[string]models.PaymentMethod, len(methods))}
	for _, m := range methods {
		reg.methods[m.ID] = m
		reg.order = append(reg.order, m.ID)
	}
	return reg
}

// DefaultMethods is the marketplace's standard method table.
func DefaultMethods() []models.PaymentMethod {
	return []models.PaymentMethod{
		{ID: "card", Name: "Credit / Debit Card", FeeRate: 0.029},
		{ID: "momo", Name: "MoMo Wallet", FeeRate: 0.015, Redirect: true},
		{ID: "paypal", Name: "PayPal", FeeRate: 0.034, Redirect: true},
		{ID: "bank_transfer", Name: "Bank Transfer", FeeRate: 0.010},
		{ID: "apple_pay", Name: "Apple Pay", FeeRate: 0.029},
		{ID: "google_pay", Name: "Google Pay", FeeRate: 0.029},
	}
}

// Get looks up a method by id.
func (r *MethodRegistry) Get(id string) (models.PaymentMethod, bool) {
	m, ok := r.methods[id]
	return m, ok
}

// List returns the methods in registration order.
func (r *MethodRegistry) List() []models.PaymentMethod {
	out := make([]models.PaymentMethod, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.methods[id])
	}
	return out
}
