// Package parallel spreads cipher work across goroutines.
//
// Only transforms whose chunks are independent may be split: ECB encryption
// and decryption, or any function applied to separate buffers. CBC
// encryption chains every block to the one before it and must run serially.
// Contexts passed to workers must be safe for concurrent use; AES and
// Blowfish contexts are, an ARCFOUR context is not meaningful to share.
package parallel
