// Package normalize offers optional caller-side string normalization
// for surface forms before they are handed to an Engine. It is never
// called by the engine itself: search operates on whatever string the
// caller supplies, byte for byte, per the engine's Unicode-agnostic
// string-matching design.
package normalize

import (
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// NFC returns s in Unicode Normalization Form C. Surface forms pulled
// from different input methods or OCR pipelines sometimes arrive
// decomposed (NFD); descriptors are authored against composed text, so
// callers that cannot guarantee NFC input should normalize before
// calling Engine.Transform.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// FoldWidth folds halfwidth/fullwidth variants to their canonical
// forms (e.g. fullwidth ASCII "Ａ" to "A", halfwidth katakana "ｶ" to
// "カ"). Useful for surface forms copied from sources that mix width
// variants inconsistently.
func FoldWidth(s string) string {
	return width.Fold.String(s)
}
