package ecs

// Each2 iterates over entities that have both component A and B.
// It iterates over the smaller store and checks the larger one.
func Each2[A, B any](sa *SparseSet[A], sb *SparseSet[B], fn func(EntityID, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for i, id := range sa.dense {
			if b, ok := sb.Get(id); ok {
				fn(id, &sa.values[i], b)
			}
		}
		return
	}
	for i, id := range sb.dense {
		if a, ok := sa.Get(id); ok {
			fn(id, a, &sb.values[i])
		}
	}
}
