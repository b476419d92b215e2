package entity

import "fmt"

// CompositeKeyOf builds the canonical (name,version) composite key string
// shared by Processor lookups and manager-layer uniqueness checks.
func CompositeKeyOf(name string, version int) string {
	return fmt.Sprintf("%s@%d", name, version)
}
