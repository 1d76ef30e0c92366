package models

import "errors"

// Failure taxonomy of the offer pipeline. Callers match these with
// errors.Is; lower layers wrap them with context.
var (
	// ErrNotAuthenticated means no valid bearer credential is available
	// for the requested identity.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrCorruptKeyMaterial means the vault returned key bytes that do not
	// decode to a valid secret key.
	ErrCorruptKeyMaterial = errors.New("corrupt key material")
	// ErrUploadFailed means the content store upload did not fully
	// succeed; no identifier from such a call may be treated as valid.
	ErrUploadFailed = errors.New("content upload failed")
	// ErrNotFound means the requested key or content identifier does not
	// exist on the remote side.
	ErrNotFound = errors.New("not found")
	// ErrDecryptionFailure means envelope authentication failed: wrong
	// key or tampered ciphertext. Recoverable; never fatal to callers.
	ErrDecryptionFailure = errors.New("decryption failure")
	// ErrTransactionFailed means an on-chain call reverted or was not
	// confirmed.
	ErrTransactionFailed = errors.New("transaction failed")
)
