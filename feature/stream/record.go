package stream

// Fields are the keys of a stream record, in CSV sink order.
var Fields = []string{
	"order_id", "order_quantity", "price", "line_item", "sales", "order_date",
	"order_status", "order_quarter", "order_month", "order_year", "product_line",
	"msrp", "product_id", "customer_name", "phone", "address", "city", "country",
	"last_name", "first_name", "deal_size",
}

// Record is one decoded JSON line. Values keep their JSON types.
type Record map[string]any
