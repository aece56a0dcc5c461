// Package lib holds helpers that do not belong to a single layer.
package lib
