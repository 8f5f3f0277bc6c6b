//go:build !linux && !darwin

package hostinfo

func platformFacts() facts {
	return facts{}
}
