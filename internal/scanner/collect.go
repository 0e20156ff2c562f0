package scanner

import "math/rand/v2"

// Collect drains st into memory in emission order and closes it. When the
// stream fails, the tracks gathered so far are discarded.
func Collect(st *Stream) ([]string, error) {
	defer st.Close()

	var tracks []string
	for st.Next() {
		tracks = append(tracks, st.Track())
	}
	if err := st.Err(); err != nil {
		return nil, err
	}
	return tracks, nil
}

// Shuffle permutes tracks in place, every ordering equally likely. A nil
// rng uses the global source.
func Shuffle(tracks []string, rng *rand.Rand) {
	swap := func(i, j int) {
		tracks[i], tracks[j] = tracks[j], tracks[i]
	}
	if rng == nil {
		rand.Shuffle(len(tracks), swap)
		return
	}
	rng.Shuffle(len(tracks), swap)
}
