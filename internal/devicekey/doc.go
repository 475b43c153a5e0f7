// Package devicekey anchors all encryption to the device itself.
//
// A DeviceIdentity (platform fingerprint + once-generated UUID) is created
// lazily and persisted in the OS keyring or a fallback file. From it the
// Engine deterministically derives:
//
//   - a 256-bit session key (argon2id) used by the encryption engine, and
//   - an HMAC key used to pseudonymize semantic names and index values.
//
// Neither derived key is ever persisted. If the stored identity is lost, all
// ciphertext written on this device becomes permanently unreadable; that is
// the intended trade-off of a device-bound, serverless design.
package devicekey
