// Package codec detects canonical Base64 text and decodes it to UTF-8.
//
// IsBase64 applies three checks in order: the length must be a multiple of
// four, the text must use only the standard alphabet followed by at most two
// padding characters, and decoding then re-encoding must reproduce the input
// exactly. The last check rejects strings that use the right alphabet but are
// not a canonical encoding, trading a few false negatives for near-zero false
// positives on arbitrary element text.
//
// DecodeBase64UTF8 never fails from the caller's point of view: undecodable
// input is logged and yields an empty string.
package codec
