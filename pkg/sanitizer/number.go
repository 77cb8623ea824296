package sanitizer

const (
	MinAggression = 1

	MaxAggression = 5

	DefaultAggression = 3
)

// ClampAggression forces n into [MinAggression, MaxAggression].
func ClampAggression(n int) int {
	if n < MinAggression {
		return MinAggression
	}
	if n > MaxAggression {
		return MaxAggression
	}
	return n
}
