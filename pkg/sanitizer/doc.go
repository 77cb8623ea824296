// Package sanitizer provides input sanitization and normalization for fish
// records.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Functions never fail: unrecognized input falls back to a
// documented default instead of returning an error.
//
// Normalization includes:
//   - Names: Remove every '.' and '/' so the result is safe as a storage key - "goldfish.1/2" becomes "goldfish12"
//   - Water type: Case-insensitive match of fresh, salt, brackish with "saltwater"/"freshwater" synonyms, default fresh
//   - Size: Case-insensitive match of small, medium, large, extra-large with "extra large"/"extra_large" synonyms, default small
//   - Aggression: Integer in [1,5]; unparseable or out of range becomes 3 on normalization, clamped on update
package sanitizer
