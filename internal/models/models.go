package model

// All lists the persisted entities in migration order.
func All() []any {
	return []any{&Task{}, &Bid{}}
}
