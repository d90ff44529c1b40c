package optimizer

// orderedSet is a string set that remembers insertion order.
type orderedSet struct {
	order []string
	in    map[string]bool
}

func newOrderedSet(ids []string) *orderedSet {
	s := &orderedSet{in: make(map[string]bool, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *orderedSet) Add(id string) {
	if s.in[id] {
		return
	}
	s.in[id] = true
	s.order = append(s.order, id)
}

func (s *orderedSet) Remove(id string) {
	delete(s.in, id)
}

func (s *orderedSet) Len() int {
	return len(s.in)
}

// Snapshot returns the current members in insertion order and compacts the
// backing slice.
func (s *orderedSet) Snapshot() []string {
	live := s.order[:0]
	for _, id := range s.order {
		if s.in[id] {
			live = append(live, id)
		}
	}
	s.order = live
	return append([]string(nil), live...)
}

// buckets maps map names to steps, iterating maps in first-seen order so
// that score ties resolve the same way on every run.
type buckets struct {
	order []string
	steps map[string][]SweepStep
}

func newBuckets() *buckets {
	return &buckets{steps: make(map[string][]SweepStep)}
}

func (b *buckets) Add(m string, step SweepStep) {
	if _, ok := b.steps[m]; !ok {
		b.order = append(b.order, m)
	}
	b.steps[m] = append(b.steps[m], step)
}

func (b *buckets) Empty() bool {
	return len(b.order) == 0
}

func (b *buckets) Steps(m string) []SweepStep {
	return b.steps[m]
}

// Best returns the map with the strictly highest score; the earliest map
// wins ties.
func (b *buckets) Best(score func([]SweepStep) float64) string {
	best := ""
	bestScore := 0.0
	for i, m := range b.order {
		sc := score(b.steps[m])
		if i == 0 || sc > bestScore {
			best, bestScore = m, sc
		}
	}
	return best
}
