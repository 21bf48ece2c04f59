// Package gorm provides GORM-based implementations of the store interfaces.
package gorm
