package a2c

// DiscountedReturns computes the discounted return of each timestep
// of a single trajectory:
//
//	return[t] = reward[t] + ℽ * return[t+1]
//
// with the final return equal to the final reward. Returns are never
// computed across trajectory boundaries, so the argument rewards must
// come from a single trajectory.
func DiscountedReturns(rewards []float64, gamma float64) []float64 {
	returns := make([]float64, len(rewards))

	discounted := 0.0
	for i := len(rewards) - 1; i >= 0; i-- {
		discounted = rewards[i] + gamma*discounted
		returns[i] = discounted
	}

	return returns
}
