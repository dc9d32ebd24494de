package domain

// Zero overwrites a byte slice with zeros to clear sensitive data from memory.
// Derived keys, decrypted private keys and recovery seeds must be zeroed as
// soon as the operation that needed them completes.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
