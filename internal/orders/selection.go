package orders

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSelection: nilai di luar enumerasi. Dianggap bug pemanggil, ditolak sebelum
// sempat masuk ke Order.
var ErrInvalidSelection = errors.New("invalid selection")

func invalid(kind, v string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalidSelection, kind, v)
}

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentQRIS    PaymentMethod = "qris"
	PaymentEWallet PaymentMethod = "ewallet"
)

var paymentMethods = []PaymentMethodInfo{
	{ID: PaymentCash, Name: "Bayar di Tempat", Label: "Tunai", Description: "Bayar langsung ke kasir"},
	{ID: PaymentQRIS, Name: "QRIS", Label: "QRIS", Description: "Scan QR code untuk bayar"},
	{ID: PaymentEWallet, Name: "E-Wallet", Label: "E-Wallet", Description: "GoPay, OVO, Dana, ShopeePay"},
}

type PaymentMethodInfo struct {
	ID          PaymentMethod `json:"id"`
	Name        string        `json:"name"`
	Label       string        `json:"label"` // dipakai di riwayat pesanan
	Description string        `json:"description"`
}

func PaymentMethods() []PaymentMethodInfo {
	return append([]PaymentMethodInfo(nil), paymentMethods...)
}

func (m PaymentMethod) Valid() bool {
	_, ok := m.info()
	return ok
}

func (m PaymentMethod) info() (PaymentMethodInfo, bool) {
	for _, p := range paymentMethods {
		if p.ID == m {
			return p, true
		}
	}
	return PaymentMethodInfo{}, false
}

// Label is the short name shown in order history.
func (m PaymentMethod) Label() string {
	if p, ok := m.info(); ok {
		return p.Label
	}
	return string(m)
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if !m.Valid() {
		return "", invalid("payment method", s)
	}
	return m, nil
}

type PickupTime string

const (
	PickupIstirahat1 PickupTime = "istirahat1"
	PickupIstirahat2 PickupTime = "istirahat2"
	PickupPulang     PickupTime = "pulang"
)

// PickupWindow: jam pengambilan, batas awal & akhir inklusif (menit sejak 00:00).
type PickupWindow struct {
	ID    PickupTime `json:"id"`
	Name  string     `json:"name"`
	Start int        `json:"-"`
	End   int        `json:"-"`
}

var pickupWindows = []PickupWindow{
	{ID: PickupIstirahat1, Name: "Istirahat 1", Start: 9*60 + 30, End: 10 * 60},
	{ID: PickupIstirahat2, Name: "Istirahat 2", Start: 12 * 60, End: 12*60 + 30},
	{ID: PickupPulang, Name: "Pulang Sekolah", Start: 15 * 60, End: 15*60 + 30},
}

func PickupWindows() []PickupWindow {
	return append([]PickupWindow(nil), pickupWindows...)
}

// Time renders the window as "09:30 - 10:00".
func (w PickupWindow) Time() string {
	return fmt.Sprintf("%02d:%02d - %02d:%02d", w.Start/60, w.Start%60, w.End/60, w.End%60)
}

func (w PickupWindow) Contains(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= w.Start && m <= w.End
}

func (p PickupTime) Valid() bool {
	_, ok := p.Window()
	return ok
}

func (p PickupTime) Window() (PickupWindow, bool) {
	for _, w := range pickupWindows {
		if w.ID == p {
			return w, true
		}
	}
	return PickupWindow{}, false
}

func ParsePickupTime(s string) (PickupTime, error) {
	p := PickupTime(s)
	if !p.Valid() {
		return "", invalid("pickup time", s)
	}
	return p, nil
}

// CurrentWindow returns the pickup window open at t; ok is false when the canteen is closed.
func CurrentWindow(t time.Time) (PickupWindow, bool) {
	for _, w := range pickupWindows {
		if w.Contains(t) {
			return w, true
		}
	}
	return PickupWindow{}, false
}

func IsOpen(t time.Time) bool {
	_, ok := CurrentWindow(t)
	return ok
}

const (
	DefaultPaymentMethod = PaymentCash
	DefaultPickupTime    = PickupIstirahat1
)
