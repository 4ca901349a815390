package redisx

import "time"

const (
	// Slot per sesi: kantin:{scope}:{slot} -> JSON array (cart / orders)
	KeySlot = "kantin:%s:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Papan pengambilan harian: hash kantin:board:{yyyymmdd} field {pickup_time} -> jumlah pesanan
	KeyPickupBoard = "kantin:board:%s"
)

var (
	TTLDedup = 48 * time.Hour
	TTLBoard = 72 * time.Hour
)

// BoardDateLayout formats the date part of KeyPickupBoard.
const BoardDateLayout = "20060102"
