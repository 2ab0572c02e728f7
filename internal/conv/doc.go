// Package conv provides bounds-checked integer conversions for persisted
// index values entering the uint32 topic ID space.
package conv
