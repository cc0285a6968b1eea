package utils

import "math/rand"

func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}

	return v
}

// GenerateUniqueInts returns count distinct values drawn from [low, high).
func GenerateUniqueInts[T ~uint64](count int, low, high uint64) []T {
	if uint64(count) > high-low {
		panic("range is too small for the requested count")
	}

	seen := make(map[uint64]struct{}, count)
	res := make([]T, 0, count)
	for len(res) < count {
		//nolint:gosec
		v := low + rand.Uint64()%(high-low)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		res = append(res, T(v))
	}

	return res
}
