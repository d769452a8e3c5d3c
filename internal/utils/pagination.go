// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampLimit normalizes a requested page size: values below 1 become def,
// values above max become max.
//
//	utils.ClampLimit(0, 50, 200)   // 50
//	utils.ClampLimit(500, 50, 200) // 200
func ClampLimit(n, def, max int) int {
	if n < 1 {
		n = def
	}
	if n > max {
		n = max
	}
	return n
}
