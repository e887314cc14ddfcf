package depot

type factory struct{}

// Factory builds schemas, queries, and cursors.
var Factory factory

func (factory) NewSchema() *Schema {
	return newSchema()
}

func (factory) NewQuery(required ...Component) *Query {
	return newQuery(required...)
}

// NewCursor evaluates q against w with Added/Removed anchored to world
// start. Systems should prefer Ctx.Cursor, which anchors to their stage.
func (factory) NewCursor(q *Query, w *World) *Cursor {
	return newCursor(q, w, 0)
}
