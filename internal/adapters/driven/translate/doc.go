// Package translate holds translation backend adapters and the helpers
// they share.
package translate
