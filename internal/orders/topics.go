package orders

const TopicOrderConfirmed = "kantin.order.confirmed"

// Partition key = kode pesanan.
func PartitionKey(code string) []byte { return []byte(code) }
