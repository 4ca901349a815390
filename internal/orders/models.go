package orders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"gopkg.in/yaml.v3"
	"time"
)

// ItemID identifies a menu entry. Catalog data may author it as a number or a string;
// it is always carried as a string.
type ItemID string

func (id *ItemID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("item id: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}

func (id *ItemID) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("item id: expected scalar at line %d", n.Line)
	}
	*id = ItemID(n.Value)
	return nil
}

func (id ItemID) String() string { return string(id) }

// MenuEntry adalah satu menu di katalog. Harga dalam rupiah (tanpa desimal).
type MenuEntry struct {
	ID          ItemID  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description"`
	Price       int64   `json:"price" yaml:"price"`
	Discount    int     `json:"discount,omitempty" yaml:"discount"` // persen 0-100
	Image       string  `json:"image,omitempty" yaml:"image"`
	Category    string  `json:"category,omitempty" yaml:"category"`
	IsPopular   bool    `json:"isPopular,omitempty" yaml:"isPopular"`
	Rating      float64 `json:"rating,omitempty" yaml:"rating"`
	Reviews     int     `json:"reviews,omitempty" yaml:"reviews"`
}

func (e MenuEntry) Validate() error {
	switch {
	case e.ID == "":
		return fmt.Errorf("menu entry %q: missing id", e.Name)
	case e.Name == "":
		return fmt.Errorf("menu entry %s: missing name", e.ID)
	case e.Price < 0:
		return fmt.Errorf("menu entry %s: negative price", e.ID)
	case e.Discount < 0 || e.Discount > 100:
		return fmt.Errorf("menu entry %s: discount %d out of range", e.ID, e.Discount)
	case e.Rating < 0 || e.Rating > 5:
		return fmt.Errorf("menu entry %s: rating %.1f out of range", e.ID, e.Rating)
	case e.Reviews < 0:
		return fmt.Errorf("menu entry %s: negative review count", e.ID)
	}
	return nil
}

// UnitPrice is the effective unit price after discount.
func (e MenuEntry) UnitPrice() int64 { return EffectiveUnitPrice(e.Price, e.Discount) }

type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Icon string `json:"icon" yaml:"icon"`
}

// Line is one cart entry: a snapshot of the menu entry plus a quantity.
// Persisted flattened, the same shape the storefront has always written.
type Line struct {
	MenuEntry
	Quantity int `json:"quantity"`
}

func (l Line) Total() int64 { return l.UnitPrice() * int64(l.Quantity) }

func (l Line) Validate() error {
	if err := l.MenuEntry.Validate(); err != nil {
		return err
	}
	if l.Quantity <= 0 {
		return fmt.Errorf("line %s: quantity %d must be positive", l.ID, l.Quantity)
	}
	return nil
}

// ValidateLines checks every line and that ids are unique.
func ValidateLines(lines []Line) error {
	seen := make(map[ItemID]bool, len(lines))
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return err
		}
		if seen[l.ID] {
			return fmt.Errorf("line %s: duplicate id", l.ID)
		}
		seen[l.ID] = true
	}
	return nil
}

type Order struct {
	Code          string        `json:"code"`
	CreatedAt     time.Time     `json:"createdAt"`
	Items         []Line        `json:"items"`
	Total         int64         `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PickupTime    PickupTime    `json:"pickupTime"`
}

func (o Order) Validate() error {
	if o.Code == "" {
		return fmt.Errorf("order: missing code")
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("order %s: no items", o.Code)
	}
	if err := ValidateLines(o.Items); err != nil {
		return fmt.Errorf("order %s: %w", o.Code, err)
	}
	if want := TotalPrice(o.Items); o.Total != want {
		return fmt.Errorf("order %s: total %d does not match items (%d)", o.Code, o.Total, want)
	}
	if !o.PaymentMethod.Valid() {
		return fmt.Errorf("order %s: %w", o.Code, invalid("payment method", string(o.PaymentMethod)))
	}
	if !o.PickupTime.Valid() {
		return fmt.Errorf("order %s: %w", o.Code, invalid("pickup time", string(o.PickupTime)))
	}
	return nil
}

// TotalItems sums quantities; TotalPrice sums line totals.
func TotalItems(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func TotalPrice(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.Total()
	}
	return total
}
