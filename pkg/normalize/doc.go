// Package normalize converts provider specific JSON payloads into the
// canonical models. There is one converter per provider, held in a table per
// concern; a provider without an entry fails with core.KindUnsupportedProvider.
//
// Converters are pure: the same payload always produces the same value.
package normalize
