package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveUnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    int64
		discount int
		want     int64
	}{
		{"no discount", 10000, 0, 10000},
		{"twenty percent", 5000, 20, 4000},
		{"floor of the discount", 999, 15, 850}, // 999*15/100 = 149.85 -> 149
		{"full discount", 7000, 100, 0},
		{"over hundred clamps", 7000, 150, 0},
		{"negative discount ignored", 7000, -5, 7000},
		{"free item", 0, 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveUnitPrice(tt.price, tt.discount))
		})
	}
}

func TestTotals(t *testing.T) {
	lines := []Line{
		{MenuEntry: MenuEntry{ID: "1", Name: "Nasi Goreng", Price: 10000}, Quantity: 2},
		{MenuEntry: MenuEntry{ID: "2", Name: "Es Teh", Price: 5000, Discount: 20}, Quantity: 1},
	}
	assert.Equal(t, 3, TotalItems(lines))
	assert.Equal(t, int64(24000), TotalPrice(lines))
	assert.Equal(t, int64(0), TotalPrice(nil))
}
