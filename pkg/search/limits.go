package search

// Limit decides, before each step, whether the search must stop. A nil
// Limit never stops.
type Limit func(Statistics) bool

// LimitNone never stops the search.
func LimitNone() Limit { return nil }

// LimitSolutions stops once n solutions were found.
func LimitSolutions(n int) Limit {
	return func(s Statistics) bool { return s.Solutions >= n }
}

// LimitFailures stops once n failures were counted.
func LimitFailures(n int) Limit {
	return func(s Statistics) bool { return s.Failures >= n }
}

// LimitNodes stops once n nodes were explored.
func LimitNodes(n int) Limit {
	return func(s Statistics) bool { return s.Nodes >= n }
}

// AnyLimit stops as soon as one of limits does. Nil entries are skipped.
func AnyLimit(limits ...Limit) Limit {
	return func(s Statistics) bool {
		for _, l := range limits {
			if l != nil && l(s) {
				return true
			}
		}
		return false
	}
}
