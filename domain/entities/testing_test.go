package entities

// scriptedRandom replays values, reducing each modulo n
type scriptedRandom struct {
	values []int
	next   int
}

func (s *scriptedRandom) Intn(n int) int {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}
