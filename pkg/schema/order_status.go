package schema

import "time"

const OrderStatusChangedSchemaTextV1 = `{
	"type": "record",
	"namespace": "vipstore.orders",
	"name": "OrderStatusChanged",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "previous_status", "type": "string"},
		{"name": "status", "type": "string"},
		{"name": "changed_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type OrderStatusChangedV1 struct {
	OrderID        string    `avro:"order_id"`
	PreviousStatus string    `avro:"previous_status"`
	Status         string    `avro:"status"`
	ChangedAt      time.Time `avro:"changed_at"`
}
