package catalog

import (
	"fmt"
	"os"
	"sort"

	"playeasy/internal/models"

	"gopkg.in/yaml.v2"
)

// Catalog holds the court, equipment and payment method reference data.
// It is loaded once at startup and never mutated by the booking flow.
type Catalog struct {
	courts   map[int64]models.Court
	items    map[int64]models.EquipmentItem
	payments map[string]models.PaymentMethod

	sortedCourts   []models.Court
	sortedItems    []models.EquipmentItem
	sortedPayments []models.PaymentMethod
}

type catalogFile struct {
	Courts         []models.Court         `yaml:"courts"`
	Equipment      []models.EquipmentItem `yaml:"equipment"`
	PaymentMethods []models.PaymentMethod `yaml:"payment_methods"`
}

// Load reads the catalog YAML file and validates it.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	return New(file.Courts, file.Equipment, file.PaymentMethods)
}

// New builds a catalog from already-parsed records.
func New(courts []models.Court, items []models.EquipmentItem, payments []models.PaymentMethod) (*Catalog, error) {
	if err := validateCourts(courts); err != nil {
		return nil, err
	}
	if err := validateEquipment(items); err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		payments = DefaultPaymentMethods()
	}

	c := &Catalog{
		courts:   make(map[int64]models.Court, len(courts)),
		items:    make(map[int64]models.EquipmentItem, len(items)),
		payments: make(map[string]models.PaymentMethod, len(payments)),
	}

	for _, court := range courts {
		c.courts[court.ID] = court
		c.sortedCourts = append(c.sortedCourts, court)
	}
	sort.Slice(c.sortedCourts, func(i, j int) bool { return c.sortedCourts[i].ID < c.sortedCourts[j].ID })

	for _, item := range items {
		c.items[item.ID] = item
		c.sortedItems = append(c.sortedItems, item)
	}
	sort.Slice(c.sortedItems, func(i, j int) bool { return c.sortedItems[i].ID < c.sortedItems[j].ID })

	for _, p := range payments {
		if p.ID == "" {
			return nil, fmt.Errorf("payment method '%s' has empty ID", p.Name)
		}
		if _, dup := c.payments[p.ID]; dup {
			return nil, fmt.Errorf("duplicate payment method ID: %s", p.ID)
		}
		c.payments[p.ID] = p
		c.sortedPayments = append(c.sortedPayments, p)
	}

	return c, nil
}

func validateCourts(courts []models.Court) error {
	seen := make(map[int64]bool)
	for _, court := range courts {
		if court.ID == 0 {
			return fmt.Errorf("court '%s' has invalid ID 0", court.Name)
		}
		if seen[court.ID] {
			return fmt.Errorf("duplicate court ID found: %d", court.ID)
		}
		if court.RatePerHour < 0 {
			return fmt.Errorf("court '%s' has negative rate", court.Name)
		}
		seen[court.ID] = true
	}
	return nil
}

func validateEquipment(items []models.EquipmentItem) error {
	seen := make(map[int64]bool)
	for _, item := range items {
		if item.ID == 0 {
			return fmt.Errorf("equipment '%s' has invalid ID 0", item.Name)
		}
		if seen[item.ID] {
			return fmt.Errorf("duplicate equipment ID found: %d", item.ID)
		}
		if item.UnitPrice < 0 {
			return fmt.Errorf("equipment '%s' has negative price", item.Name)
		}
		if item.Stock < 0 {
			return fmt.Errorf("equipment '%s' has negative stock", item.Name)
		}
		seen[item.ID] = true
	}
	return nil
}

// DefaultPaymentMethods returns the built-in payment options.
func DefaultPaymentMethods() []models.PaymentMethod {
	return []models.PaymentMethod{
		{ID: "airtel-money", Name: "Airtel Money", Description: "Pay securely with your Airtel Money wallet", Popular: true},
		{ID: "bank-transfer", Name: "Bank Transfer", Description: "Direct bank transfer (manual confirmation required)"},
		{ID: "pos", Name: "Point of Sale (POS)", Description: "Pay in person at the venue"},
		{ID: "manual", Name: "Manual Payment", Description: "Admin will manually update payment status"},
	}
}

func (c *Catalog) Court(id int64) (*models.Court, bool) {
	court, ok := c.courts[id]
	if !ok {
		return nil, false
	}
	return &court, true
}

func (c *Catalog) Courts() []models.Court {
	out := make([]models.Court, len(c.sortedCourts))
	copy(out, c.sortedCourts)
	return out
}

func (c *Catalog) EquipmentItem(id int64) (*models.EquipmentItem, bool) {
	item, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return &item, true
}

func (c *Catalog) Equipment() []models.EquipmentItem {
	out := make([]models.EquipmentItem, len(c.sortedItems))
	copy(out, c.sortedItems)
	return out
}

// Categories returns the distinct equipment categories in catalog order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range c.sortedItems {
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	return out
}

func (c *Catalog) PaymentMethod(id string) (*models.PaymentMethod, bool) {
	p, ok := c.payments[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (c *Catalog) PaymentMethods() []models.PaymentMethod {
	out := make([]models.PaymentMethod, len(c.sortedPayments))
	copy(out, c.sortedPayments)
	return out
}
