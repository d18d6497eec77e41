// Package symcrypt provides small symmetric-cryptography building blocks.
//
// The primitives live in subpackages:
//   - pkcs5: RFC 2898 block padding
//   - arcfour: the RC4 stream cipher
//   - aes: table-driven Rijndael with 128/192/256-bit keys in ECB and CBC modes
//   - blowfish: Blowfish with key-dependent S-boxes
//
// Callers provision keys and IVs and size buffers; the primitives never
// generate keys, perform I/O or log. The envelope, keycache, parallel and
// selftest packages compose the primitives for applications.
package symcrypt
