// Package linkfilter resolves bracketed wiki link tokens ([...]) in page
// source into HTML fragments.
//
// A token is split into display text, reference and an optional frame
// target using one of three delimiter spellings (|, > or &gt;):
//
//	[Reference]
//	[Text|Reference]
//	[Text|Reference|Target]
//
// The reference is then classified as an external URL, a mailto address,
// an inter-wiki reference (Page@Alias) or an internal page reference
// (Space.Page#anchor), and rendered through the capabilities the Resolver
// was configured with.
package linkfilter
