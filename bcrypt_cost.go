//go:build !race

package foodbook

func passwordHashCost() int {
	return 12
}
