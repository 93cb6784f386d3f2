package specifications

// Specification is the base interface for all specifications
// It follows the Specification pattern for encapsulating filter rules
type Specification[T any] interface {
	// IsSatisfiedBy checks if the specification is satisfied by the given object
	IsSatisfiedBy(candidate T) bool

	// And creates a composite specification with AND logic
	And(other Specification[T]) Specification[T]

	// Not creates a specification with NOT logic
	Not() Specification[T]
}

// BaseSpecification provides default implementations for specification operations
type BaseSpecification[T any] struct {
	evaluator func(T) bool
}

// NewBaseSpecification creates a new base specification with a custom evaluator
func NewBaseSpecification[T any](evaluator func(T) bool) *BaseSpecification[T] {
	return &BaseSpecification[T]{
		evaluator: evaluator,
	}
}

// IsSatisfiedBy checks if the specification is satisfied
func (s *BaseSpecification[T]) IsSatisfiedBy(candidate T) bool {
	return s.evaluator(candidate)
}

// And creates an AND composite specification
func (s *BaseSpecification[T]) And(other Specification[T]) Specification[T] {
	return &AndSpecification[T]{
		left:  s,
		right: other,
	}
}

// Not creates a NOT specification
func (s *BaseSpecification[T]) Not() Specification[T] {
	return &NotSpecification[T]{
		spec: s,
	}
}

// AndSpecification represents an AND composite specification
type AndSpecification[T any] struct {
	left  Specification[T]
	right Specification[T]
}

// IsSatisfiedBy returns true when both sides are satisfied
func (s *AndSpecification[T]) IsSatisfiedBy(candidate T) bool {
	return s.left.IsSatisfiedBy(candidate) && s.right.IsSatisfiedBy(candidate)
}

// And chains another specification with AND logic
func (s *AndSpecification[T]) And(other Specification[T]) Specification[T] {
	return &AndSpecification[T]{left: s, right: other}
}

// Not negates the composite
func (s *AndSpecification[T]) Not() Specification[T] {
	return &NotSpecification[T]{spec: s}
}

// NotSpecification represents a NOT specification
type NotSpecification[T any] struct {
	spec Specification[T]
}

// IsSatisfiedBy returns the negation of the wrapped specification
func (s *NotSpecification[T]) IsSatisfiedBy(candidate T) bool {
	return !s.spec.IsSatisfiedBy(candidate)
}

// And chains another specification with AND logic
func (s *NotSpecification[T]) And(other Specification[T]) Specification[T] {
	return &AndSpecification[T]{left: s, right: other}
}

// Not negates the specification again
func (s *NotSpecification[T]) Not() Specification[T] {
	return s.spec
}
