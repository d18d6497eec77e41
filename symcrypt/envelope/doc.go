// Package envelope composes the symcrypt primitives into a message format.
//
// A sealed message is one flag byte followed by the ciphertext:
//   - bit 0 of the flag byte is set when the payload was LZ4 compressed
//     before encryption; it is only set when compression made it smaller
//   - block ciphers (AES, Blowfish) PKCS5-pad the payload, then encrypt it
//   - ARCFOUR frames put a random 16-byte nonce after the flag byte; each
//     message's RC4 key is HKDF(envelope key, nonce), so no keystream is
//     used twice
//   - compressed payloads may expand to at most WithMaxDecompressed bytes
//
// The flag byte is not authenticated. Envelope provides confidentiality only;
// callers that need integrity must add a MAC over the sealed bytes.
//
// Keys and IVs can be derived from a shared secret or a passphrase with
// DeriveKeyIV and DerivePassphrase.
package envelope
