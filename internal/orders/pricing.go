package orders

// EffectiveUnitPrice applies a percentage discount and rounds the discount down:
// price - floor(price*discount/100). Discounts outside 0..100 are clamped.
// Cart totals, checkout totals and history display all go through here.
func EffectiveUnitPrice(price int64, discount int) int64 {
	if discount <= 0 || price <= 0 {
		return price
	}
	if discount > 100 {
		discount = 100
	}
	return price - price*int64(discount)/100
}
