package depot

// Query describes a fixed tuple of required component types plus filters.
// The required tuple drives iteration and column access; filters narrow the
// matched set without exposing columns. A query with no required components
// and no filters matches every live entity (the identity query).
type Query struct {
	required []Component
	with     []Component
	without  []Component
	added    []Component
	removed  []Component
}

func newQuery(required ...Component) *Query {
	return &Query{required: required}
}

// With requires membership in the given columns without fetching them.
func (q *Query) With(comps ...Component) *Query {
	q.with = append(q.with, comps...)
	return q
}

// Without excludes entities holding any of the given components.
func (q *Query) Without(comps ...Component) *Query {
	q.without = append(q.without, comps...)
	return q
}

// Added narrows to entities attached to the given columns since the owning
// stage's previous completion (since world start outside a stage).
func (q *Query) Added(comps ...Component) *Query {
	q.added = append(q.added, comps...)
	return q
}

// Removed narrows to entities detached from the given columns since the
// owning stage's previous completion.
func (q *Query) Removed(comps ...Component) *Query {
	q.removed = append(q.removed, comps...)
	return q
}
