package wearable

// Optional holds a value fetched from a provider endpoint, or nothing when the
// fetch failed. Absent is never an error for the caller, it only means the
// metric is skipped for this sync.
type Optional[T any] struct {
	value   T
	present bool
}

func Present[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

func Absent[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) IsPresent() bool {
	return o.present
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// OrZero returns the held value or the zero value of T.
func (o Optional[T]) OrZero() T {
	return o.value
}
